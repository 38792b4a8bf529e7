// ABOUTME: API server subcommand
// ABOUTME: Starts the REST server with the shared event bus
package cli

import (
	"database/sql"

	"github.com/orahq/orascan/bus"
	"github.com/orahq/orascan/summarize"
	"github.com/orahq/orascan/web"
)

// ServeCommand starts the REST API server.
func ServeCommand(db *sql.DB, events *bus.Bus, client *summarize.Client, port int) error {
	server := web.NewServer(db, events, client)
	return server.Start(port)
}
