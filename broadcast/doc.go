// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package broadcast is the room-based event channel clients use to share
voting updates.

# Server Side

A Hub holds rooms of subscribers. Publish delivers to every subscriber in
the room, including the one that sent the message:

	hub := broadcast.NewHub(nil)
	h := broadcast.NewHandler(hub)

	mux.HandleFunc("GET /rooms/{room}/stream", h.Stream)
	mux.HandleFunc("POST /rooms/{room}/events/{event}", h.Emit)

Stream is a Server-Sent Events response. Each event is written as

	id: <message id>
	event: <event name>
	data: {"id":...,"room":...,"event":...,"sender":...,"payload":{...}}

with ": ping" comments every 15 seconds. Emit accepts any JSON body and
answers 202 with the message ID and the number of subscribers reached.

Hub.Close ends every subscription, so open streams return. Register it
with http.Server.RegisterOnShutdown to let Shutdown finish without waiting
on them.

# Client Side

Client and Local both satisfy store.Transport:

	c := broadcast.NewClient("http://localhost:3318")
	defer c.Close(ctx)
	st, err := store.New(c, persister)

Client emits are queued and posted in order by one goroutine. The stream
reconnects after a disconnect with a constant delay (1s) and a bounded
number of attempts (5); after that the client stops listening.

Local talks to an in-process Hub and is used by tests and by tools that
embed the server.

# Delivery

Delivery is at most once. A subscriber that falls 64 messages behind
misses messages rather than slowing the room down.
*/
package broadcast
