// Package websocket streams arena events to spectators.
//
// A Hub owns every connection. Events arrive through Broadcast, usually fed
// by Forward from a broker subscription, and each event is written to the
// client as one JSON text frame with the fields type, game_id, game and at.
//
// A client watches one match when it connects with ?game_id=<id>, or every
// match when the parameter is absent. Clients that fall behind are
// disconnected rather than slowing the hub down.
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//	go hub.Forward(ctx, arena.Subscribe())
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("game_id"))
//	})
package websocket
