package commands

import (
	"fmt"

	"github.com/nyxgate/idmbroker/cmd/idmctl/cmdutil"
	"github.com/nyxgate/idmbroker/internal/protocol/idm"
	"github.com/spf13/cobra"
)

var freeHandle uint64

var freeCmd = &cobra.Command{
	Use:   "free",
	Short: "Free a previously allocated handle",
	RunE:  runFree,
}

func init() {
	freeCmd.Flags().Uint64Var(&freeHandle, "handle", 0, "handle to free (required)")
	_ = freeCmd.MarkFlagRequired("handle")
}

func runFree(cmd *cobra.Command, args []string) error {
	sess, err := cmdutil.Connect()
	if err != nil {
		return err
	}
	defer sess.Close()

	req := idm.FreeRequest{Handle: freeHandle}
	payload := make([]byte, 8)
	req.Encode(payload)

	resp, err := sess.Stub.Call(sess.Ctx, idm.KindFree, payload)
	if err != nil {
		return err
	}
	if resp.Header.Kind == idm.KindError {
		return cmdutil.DecodeAndPrintError(resp.Payload)
	}
	fmt.Println("freed")
	return nil
}
