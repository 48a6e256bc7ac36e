package commands

import (
	"fmt"

	"github.com/nyxgate/idmbroker/cmd/idmctl/cmdutil"
	"github.com/nyxgate/idmbroker/internal/protocol/idm"
	"github.com/spf13/cobra"
)

var allocSize uint64
var allocFlags uint32

var allocCmd = &cobra.Command{
	Use:   "alloc",
	Short: "Allocate device memory and print the resulting handle",
	RunE:  runAlloc,
}

func init() {
	allocCmd.Flags().Uint64Var(&allocSize, "size", 0, "bytes to allocate (required)")
	allocCmd.Flags().Uint32Var(&allocFlags, "flags", 0, "allocation flags")
	_ = allocCmd.MarkFlagRequired("size")
}

func runAlloc(cmd *cobra.Command, args []string) error {
	sess, err := cmdutil.Connect()
	if err != nil {
		return err
	}
	defer sess.Close()

	req := idm.AllocRequest{Size: allocSize, Flags: allocFlags}
	payload := make([]byte, 12)
	req.Encode(payload)

	resp, err := sess.Stub.Call(sess.Ctx, idm.KindAlloc, payload)
	if err != nil {
		return err
	}
	if resp.Header.Kind == idm.KindError {
		return cmdutil.DecodeAndPrintError(resp.Payload)
	}
	ok, err := idm.DecodeOKResponse(resp.Payload)
	if err != nil {
		return err
	}
	fmt.Printf("handle: %d\n", ok.ResultHandle)
	return nil
}
