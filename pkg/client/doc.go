// Package client provides the client-side implementation of the MCP protocol.
//
// Client is a service.ClientService: it answers the requests a server may
// send during a session (ping, sampling/createMessage, roots/list) and
// receives the server's notifications. Connect opens a Session, which offers
// typed calls for everything a server exposes.
//
// # Client Capabilities
//
//   - Roots: always advertised; SetRoots tells open sessions the list changed
//   - Sampling: advertised when a SamplingHandler is set
//
// Session methods check the capabilities the server advertised and fail with
// CapabilityRequired without a round trip when one is missing.
//
// # Connecting to a Server
//
//	c := client.New(
//	    client.WithName("ExampleClient"),
//	    client.WithVersion("1.0.0"),
//	    client.WithNotificationHandler(func(ctx context.Context, n protocol.ServerNotification) {
//	        fmt.Println("notification:", n.Method())
//	    }),
//	)
//
//	s, err := c.ConnectStdio(ctx)
//	if err != nil {
//	    // Handle error
//	}
//	defer s.Close()
//
//	tools, err := s.ListAllTools(ctx)
//	if err != nil {
//	    // Handle error
//	}
//	for _, tool := range tools {
//	    fmt.Printf("- %s: %s\n", tool.Name, tool.Description)
//	}
//
// # Progress
//
// CallToolWithProgress attaches a progress token to the call and hands every
// notifications/progress for it to a callback:
//
//	result, err := s.CallToolWithProgress(ctx, "index", args, func(p protocol.ProgressNotification) {
//	    fmt.Printf("%.0f/%.0f %s\n", p.Progress, p.Total, p.Message)
//	})
package client
