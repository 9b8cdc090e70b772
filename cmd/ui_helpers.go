package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"ratatouille/cli/internal/api"
	apperrors "ratatouille/cli/internal/errors"
	"ratatouille/cli/internal/httperrors"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// startSpinner shows a stick-style spinner followed by text while a webhook call
// is in flight. It hides the cursor and draws into a pterm area that is removed
// when the returned stop function is called. Nothing is drawn when stdout is not
// a terminal, so piped output stays clean.
func startSpinner(text string) func() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func() {}
	}
	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		cursor.Show()
		return func() {}
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		i := 0
		for {
			select {
			case <-t.C:
				i++
				area.Update(fmt.Sprintf("%s %s", spinnerFrames[i%len(spinnerFrames)], text))
			case <-stop:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			_ = area.Stop()
			cursor.Show()
		})
	}
}

// readInput returns the joined arguments, or all of stdin when there are none.
// An empty result is an InputMissing error naming what was expected. Text that is
// not valid UTF-8 is InputInvalid: it could not be sent byte for byte.
func readInput(args []string, stdin io.Reader, what string) (string, error) {
	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else if stdin != nil {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		text = strings.TrimRight(string(b), "\r\n")
	}
	if strings.TrimSpace(text) == "" {
		return "", apperrors.New(apperrors.InputMissing, "no "+what+" given")
	}
	if !utf8.ValidString(text) {
		return "", apperrors.New(apperrors.InputInvalid, what+" is not valid UTF-8")
	}
	return text, nil
}

// presentRequestError turns a failed webhook call into a user-facing error.
// Text the client refused to send is InputInvalid and responses that are not JSON
// are DecodeFailed. Anything else is a transport failure, shown with hints.
func presentRequestError(err error, action, target string) error {
	if errors.Is(err, api.ErrInvalidUTF8) {
		return apperrors.Wrap(apperrors.InputInvalid, action, err)
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		pterm.Error.Printf("The webhook answered with something that is not JSON while %s\n", action)
		return apperrors.Wrap(apperrors.DecodeFailed, action, err)
	}
	return httperrors.FormatNetworkError(err, action, target)
}
