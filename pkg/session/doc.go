// Package session tracks the authentication session: status, token, and
// user profile. Login and registration are asynchronous with the shared
// request lifecycle; logout is a synchronous, unconditional local reset
// that requires no server round trip to take effect.
package session
