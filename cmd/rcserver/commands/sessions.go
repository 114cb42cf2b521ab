package commands

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/CodedInternet/rclink/onboard"
	"github.com/spf13/cobra"
)

var sessionLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "lists the most recent operator connections from the journal",
	Long: `Lists the most recent operator connections from the journal.

The journal can only be opened while rcserver serve is stopped. While it is
running, use GET /api/sessions on the monitor instead.`,
	Args:  cobra.MaximumNArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		if config.Journal == "" {
			return errors.New("no journal configured")
		}

		journal, err := onboard.OpenJournal(config.Journal)
		if err == onboard.ErrJournalLocked {
			return fmt.Errorf("%v: stop rcserver serve or query GET /api/sessions on the monitor", err)
		}
		if err != nil {
			return err
		}
		defer journal.Close()

		sessions, err := journal.Sessions(sessionLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tREMOTE\tOPENED\tDURATION\tLINES\tINVALID\tFINAL\tERROR")
		for _, s := range sessions {
			duration := "open"
			if !s.Closed.IsZero() {
				duration = s.Closed.Sub(s.Opened).Round(time.Millisecond).String()
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
				s.ID, s.Remote, s.Opened.Format(time.RFC3339), duration,
				s.Lines, s.Invalid, s.Final, s.Error)
		}
		return w.Flush()
	},
}
