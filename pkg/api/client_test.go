package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL), srv
}

func TestFoodsQueryParameters(t *testing.T) {
	var gotQuery map[string]string

	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		json.NewEncoder(w).Encode([]Food{{ID: "f1", Name: "Burger", Price: 250}})
	})
	defer srv.Close()

	foods, err := c.Foods(context.Background(), FoodQuery{
		Category: "Pizza",
		MinPrice: 10,
		MaxPrice: 500,
		SortBy:   "price-asc",
	})
	if err != nil {
		t.Fatalf("Foods: %v", err)
	}

	want := map[string]string{
		"category": "Pizza",
		"minPrice": "10",
		"maxPrice": "500",
		"sortBy":   "price-asc",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}

	if len(foods) != 1 || foods[0].Name != "Burger" {
		t.Errorf("foods = %+v, want one Burger", foods)
	}
}

func TestFoodsOmitsZeroParameters(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("query = %q, want empty", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode([]Food{})
	})
	defer srv.Close()

	if _, err := c.Foods(context.Background(), FoodQuery{}); err != nil {
		t.Fatalf("Foods: %v", err)
	}
}

func TestCreateOrderSendsTokenAndBody(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q, want Bearer tok-1", got)
		}
		var req OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(req.Items) != 1 || req.Items[0].Food != "f1" || req.Items[0].Quantity != 2 {
			t.Errorf("items = %+v", req.Items)
		}
		json.NewEncoder(w).Encode(Order{ID: "o1", Items: req.Items})
	})
	defer srv.Close()

	order, err := c.CreateOrder(context.Background(), "tok-1", OrderRequest{
		Items:           []OrderItem{{Food: "f1", Quantity: 2}},
		DeliveryAddress: "12 Mirpur Rd",
		PaymentMethod:   "cash",
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.ID != "o1" {
		t.Errorf("order.ID = %q, want o1", order.ID)
	}
}

func TestRemoteErrorMessageField(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid order"})
	})
	defer srv.Close()

	_, err := c.Orders(context.Background(), "tok")
	re, ok := err.(*RemoteError)
	if !ok {
		t.Fatalf("err = %T (%v), want *RemoteError", err, err)
	}
	if re.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", re.Status)
	}
	if re.Message != "invalid order" {
		t.Errorf("Message = %q, want %q", re.Message, "invalid order")
	}
}

func TestRemoteErrorFallbackMessage(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>boom</html>"))
	})
	defer srv.Close()

	_, err := c.Foods(context.Background(), FoodQuery{})
	re, ok := err.(*RemoteError)
	if !ok {
		t.Fatalf("err = %T (%v), want *RemoteError", err, err)
	}
	if re.Message != fallbackMessage {
		t.Errorf("Message = %q, want fallback %q", re.Message, fallbackMessage)
	}
}

func TestLoginReturnsTokenAndUser(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != "a@b.c" {
			t.Errorf("email = %q", creds.Email)
		}
		json.NewEncoder(w).Encode(AuthResponse{
			User:  User{ID: "u1", Email: creds.Email},
			Token: "tok-9",
		})
	})
	defer srv.Close()

	resp, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token != "tok-9" || resp.User.ID != "u1" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestRegisterReturnsUserOnly(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"user": User{ID: "u2", Email: "new@b.c"},
		})
	})
	defer srv.Close()

	user, err := c.Register(context.Background(), Credentials{Email: "new@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID != "u2" {
		t.Errorf("user = %+v", user)
	}
}
