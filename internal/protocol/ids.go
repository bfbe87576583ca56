package protocol

import "github.com/google/uuid"

// SessionID identifies one WebSocket connection's session for the
// duration it is registered with the realtime registry. It has no
// relation to the viewer's user_id: one user may hold several sessions
// (multiple tabs, a reconnect racing its predecessor's teardown).
type SessionID string

// NewSessionID mints a fresh random session identifier.
func NewSessionID() SessionID { return SessionID(uuid.NewString()) }
