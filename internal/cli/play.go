package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"kidcalc/internal/gamification"
	"kidcalc/internal/observability"
	"kidcalc/internal/session"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Use the calculator in the terminal",
	Long: `Use the calculator in the terminal, one key at a time.

Keys: 0-9 . + - * / % =  Enter (=)  n (±)  c (C)  a or Esc (AC)  q (quit)

When stdin is not a terminal the keys are read from it in order, digits are
applied as typed and the final display is printed.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

// keyLabel maps one input byte to a key label. quit is true for q,
// Ctrl-C and Ctrl-D; an empty label means the byte is ignored.
func keyLabel(b byte) (label string, quit bool) {
	switch {
	case b >= '0' && b <= '9':
		return string(b), false
	}
	switch b {
	case '.', ',':
		return ".", false
	case '+', '-', '*', '/', '%', '=':
		return string(b), false
	case 'x', 'X':
		return "×", false
	case '\r':
		return "=", false
	case 'n', 'N':
		return "±", false
	case 'c', 'C', 127:
		return "C", false
	case 'a', 'A', 27:
		return "AC", false
	case 'q', 'Q', 3, 4:
		return "", true
	}
	return "", false
}

func runPlay(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	opts, err := a.sessionOptions()
	if err != nil {
		return err
	}

	in, out := cmd.InOrStdin(), cmd.OutOrStdout()
	f, ok := in.(*os.File)
	interactive := ok && term.IsTerminal(int(f.Fd()))
	if !interactive {
		opts.DebounceMode = session.DebounceBuffered
	}

	ctx := context.Background()
	sess := a.newSession(ctx, opts)
	defer sess.Close(ctx)

	if interactive {
		// Log lines would tear the single-line display.
		if err := observability.InitLogger("error"); err != nil {
			return err
		}
		return playTerminal(ctx, sess, f, out)
	}
	return playScript(ctx, sess, opts, in, out)
}

func playTerminal(ctx context.Context, sess *session.Session, f *os.File, out io.Writer) error {
	fd := int(f.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	snap, err := sess.State(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(out, "kidcalc  (q to quit)\r\n")
	render(out, snap, nil)

	updates, unsubscribe := sess.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range updates {
			render(out, u.State, u.Events)
		}
	}()
	defer func() {
		unsubscribe()
		<-done
		fmt.Fprint(out, "\r\n")
	}()

	buf := make([]byte, 1)
	for {
		if _, err := f.Read(buf); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		label, quit := keyLabel(buf[0])
		if quit {
			return nil
		}
		if label == "" {
			continue
		}
		if _, err := sess.Press(ctx, label); err != nil {
			return err
		}
	}
}

// render redraws the display line, announcing new achievements above it.
func render(out io.Writer, snap session.Snapshot, events []gamification.Event) {
	for _, e := range events {
		if e.Type == gamification.EventAchievementEarned {
			fmt.Fprintf(out, "\r\x1b[2K🏆 %s (+%d)\r\n", e.Description, e.PointsEarned)
		}
	}
	p := snap.Progress
	fmt.Fprintf(out, "\r\x1b[2K[%24s]  ⭐ %d  level %d  🔥 %d",
		snap.Calculator.DisplayValue, p.Points, p.Level(), p.Streak)
}

func playScript(ctx context.Context, sess *session.Session, opts session.Options, in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	for _, b := range data {
		label, quit := keyLabel(b)
		if quit {
			break
		}
		if label == "" {
			continue
		}
		if label == "=" {
			// Stay outside the throttle window of the previous "=".
			time.Sleep(opts.EqualsThrottle)
		}
		if _, err := sess.Press(ctx, label); err != nil {
			return err
		}
	}

	// Let a trailing burst of digits settle.
	time.Sleep(2 * opts.DigitDebounce)

	snap, err := sess.State(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, snap.Calculator.DisplayValue)
	return nil
}
