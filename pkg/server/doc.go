// Package server implements the server side of the Model Context Protocol.
//
// Server is a service.ServerService. It keeps registries of tools, resources
// and prompts, answers the list and call requests for them, and tracks the
// sessions it serves so it can push list changes, resource updates and log
// messages.
//
// # Server Capabilities
//
// Registering anything of a kind advertises the matching capability:
//
//   - Tools: operations the client can invoke
//   - Resources: data the client can read and subscribe to
//   - Prompts: templates the client can render
//   - Logging: enabled with WithCapability(protocol.CapabilityLogging, true)
//
// A request for a capability the server did not advertise fails with
// CapabilityRequired.
//
// # Creating a Server
//
//	type greetArgs struct {
//	    Name string `json:"name"`
//	}
//
//	greet := server.MustTool("greet", "Says hello",
//	    func(ctx context.Context, args greetArgs) (protocol.CallToolResult, error) {
//	        return server.TextResult("Hello, " + args.Name + "!"), nil
//	    })
//
//	srv := server.New(
//	    server.WithName("ExampleServer"),
//	    server.WithVersion("1.0.0"),
//	    server.WithTools(greet),
//	)
//
//	peer, err := srv.Serve(ctx, transport.NewStdioTransport())
//	if err != nil {
//	    // Handle error
//	}
//	<-peer.Done()
package server
