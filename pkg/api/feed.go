package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// FeedHandler receives order events from the live feed.
type FeedHandler func(Order)

// OrderFeed is a live subscription to orders created on the server,
// delivered over a websocket. It is a presentation convenience: the order
// history itself is still owned by the order controller and refreshed via
// Orders.
type OrderFeed struct {
	conn   *websocket.Conn
	cancel context.CancelFunc
	done   chan struct{}
}

// SubscribeOrders opens the order feed and invokes handler for every
// broadcast order until the context is cancelled, Close is called, or the
// connection fails.
func (c *Client) SubscribeOrders(ctx context.Context, token string, handler FeedHandler) (*OrderFeed, error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/orders/feed"

	header := make(map[string][]string)
	if token != "" {
		header["Authorization"] = []string{"Bearer " + token}
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return nil, fmt.Errorf("trcafe: dial order feed: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	feed := &OrderFeed{
		conn:   conn,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go feed.readLoop(ctx, c, handler)
	return feed, nil
}

func (f *OrderFeed) readLoop(ctx context.Context, c *Client, handler FeedHandler) {
	defer close(f.done)
	defer f.conn.Close()

	go func() {
		<-ctx.Done()
		f.conn.Close()
	}()

	for {
		f.conn.SetReadDeadline(time.Now().Add(5 * time.Minute))

		_, msg, err := f.conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				c.logger.Error("order feed read error", "error", err)
			}
			return
		}

		var order Order
		if err := json.Unmarshal(msg, &order); err != nil {
			c.logger.Error("order feed decode error", "error", err)
			continue
		}
		handler(order)
	}
}

// Close terminates the subscription and waits for the read loop to exit.
func (f *OrderFeed) Close() {
	f.cancel()
	<-f.done
}
