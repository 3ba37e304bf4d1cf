// Package pagination provides cursor helpers for the MCP list operations.
//
// Cursors are opaque to peers. A server slices a stable ordering of its items
// with Page and hands back the next cursor; a client walks every page with
// CollectAll.
//
// # Using Pagination in a Server
//
//	tools, next, err := pagination.Page(allTools, req.Cursor, pagination.DefaultLimit)
//	if err != nil {
//	    return nil, mcperrors.InvalidParams(req.Method(), err)
//	}
//	return protocol.ListToolsResult{Tools: tools, NextCursor: next}, nil
//
// # Using Pagination in a Client
//
//	all, err := pagination.CollectAll(ctx, func(ctx context.Context, cursor string) ([]protocol.Tool, string, error) {
//	    page, err := session.ListTools(ctx, cursor)
//	    if err != nil {
//	        return nil, "", err
//	    }
//	    return page.Tools, page.NextCursor, nil
//	})
package pagination
