package dataset

import (
	"fmt"
	"net/http"

	"github.com/tailscale/tailsql/server/tailsql"
	"tailscale.com/tsweb"
)

// AttachBrowser mounts a tailsql instance over the store on the mux's
// debug handler, for ad-hoc inspection of samples and build runs while a
// build is running.
func (s *Store) AttachBrowser(mux *http.ServeMux) error {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		return fmt.Errorf("creating tailsql server: %w", err)
	}
	tsql.SetDB("sqlite://"+s.path, s.db, &tailsql.DBOptions{
		Label: "Training dataset",
	})

	debug.Handle("tailsql/", "SQL browser over the dataset DB", tsql.NewMux())
	return nil
}
