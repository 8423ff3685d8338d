package cmd

import (
	"fmt"
	"os"

	"github.com/hpckit/balsamctl/pkg/bsdk/berr"
)

// explain prints operator guidance for coded errors before handing the error
// back to cobra. The error itself (with the tool's message and exit status)
// still propagates.
func explain(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case berr.IsCode(err, berr.CodeInvalidRequest):
		fmt.Fprintln(os.Stderr, "💡 Check the submission parameters; nothing was sent to the scheduler.")
	case berr.IsCode(err, berr.CodeInitFailed):
		fmt.Fprintln(os.Stderr, "💡 Is the workflow path writable, and the store version compatible?")
	case berr.IsCode(err, berr.CodeTaskFailed):
		fmt.Fprintln(os.Stderr, "💡 The local task failed; submission was not attempted.")
	case berr.IsCode(err, berr.CodeSubmitFailed):
		fmt.Fprintln(os.Stderr, "💡 The scheduler rejected the job; check the queue and account names.")
	}
	return err
}
