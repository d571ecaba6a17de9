// Package iseclient is the entry point for constructing ISE API clients.
//
// NewManagement returns an ise.ManagementClient for the ERS REST API and
// NewSession returns an ise.SessionClient for the admin UI API. Both accept
// addresses with or without a scheme; a missing scheme means https.
//
// Quick start
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
//
//	  ers, err := iseclient.NewManagement(&ise.Config{
//	    BaseURL:  "ise.example.com:9060/ers/config",
//	    Username: "ers-admin",
//	    Password: "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  result, err := ers.UpsertGuestUser(ctx, &ise.GuestUserParams{Username: "visitor"}, false)
//	  if err != nil { log.Fatal(err) }
//	  log.Println(result)
//
//	  ui, err := iseclient.NewSession(&ise.Config{
//	    BaseURL:  "ise-pan.example.com",
//	    Username: "operator",
//	    Password: "secret",
//	    AuthType: "Internal",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  rows, err := ui.ListEndpoints(ctx, &ise.ListOptions{FetchAll: true})
//	  if err != nil { log.Fatal(err) }
//	  log.Println(len(rows))
//	}
package iseclient
