// Package session runs MCP sessions: it joins a Service to a Transport.
//
// A Peer owns one session. It reads messages from the transport, decodes them
// with its role's vocabulary and dispatches them: requests go to
// Service.HandleRequest on their own goroutine, notifications to
// Service.HandleNotification, and responses to whichever SendRequest call is
// waiting for them.
//
// Cancellation travels both ways as notifications/cancelled. When the peer
// cancels a request, the context passed to its handler is cancelled and no
// response is sent. When the context given to SendRequest ends first, the
// peer is told to stop.
//
// ServeClient and ServeServer run the initialize handshake on top of Start:
//
//	clientSide, serverSide := transport.NewPipe()
//	go func() { srvPeer, _ = session.ServeServer(ctx, serverSide, srv) }()
//	peer, err := session.ServeClient(ctx, clientSide, cli)
//	result, err := peer.SendRequest(ctx, protocol.PingRequest{})
//
// Handlers can report progress with ReportProgress and reach their peer with
// ServerPeerFromContext or ClientPeerFromContext.
package session
