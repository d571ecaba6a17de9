// Package ise provides types, interfaces, and helpers for working with the
// Cisco ISE management interfaces.
//
// # Overview
//
// Two interfaces are covered. The ERS management API is a documented REST
// surface with basic authentication and enveloped, link-paginated collection
// responses. The UI API is the internal interface of the web console; it needs
// a browser-style login session, carries its query parameters in a base64
// encoded request header and has no next-page cursor.
//
// The ise package defines the shared domain types (Record, Page, GuestUser),
// the client interfaces (ManagementClient, SessionClient) and the typed errors.
// Concrete clients are built by the iseclient package:
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/ise-client/pkg/ise"
//	  "github.com/fivetwenty-io/ise-client/pkg/iseclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  ers, err := iseclient.NewManagement(&ise.Config{
//	    BaseURL:  "https://ise.example.com:9060/ers/config/",
//	    Username: "ers-admin",
//	    Password: "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  users, err := ers.FetchAll(ctx, "guestuser?filter=name.STARTSW.guest")
//	  if err != nil { log.Fatal(err) }
//	  _ = users
//	}
//
// # Pagination
//
// ManagementClient.FetchAll follows the server supplied next-page links until
// none is left. SessionClient.ListEndpoints derives the number of pages from a
// separate count probe and logs out once the listing is done.
//
// # Errors
//
// Non-success responses surface as *RemoteError (ERS) or *SessionError (UI
// API). Both carry the HTTP status and the response body. IsNotFound reports
// whether an error is a 404 from either interface.
package ise
