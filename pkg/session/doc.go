// Package session serves the live viewer over a websocket at /v1/ws.
//
// Each connection is its own session. It opens with an overview summary of the
// whole catalog. After that the client sends criteria objects and the server
// answers every one with a summary of the matching strains:
//
//	-> {"types": ["Levure"], "repiquage": "Oui", "search": ""}
//	<- {"type": "summary", "summary": {"total": 42, "filtered": 3, ...}}
//
// Criteria never leak between sessions. Invalid criteria get an error frame
// and the connection stays open:
//
//	<- {"type": "error", "message": "invalid repiquage value: ..."}
//
// The catalog is loaded before the upgrade. If it is unavailable the request
// is answered with 503 and no session starts.
//
// The Hub only tracks open connections so they can be counted and closed
// when the server shuts down.
package session
