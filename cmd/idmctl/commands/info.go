package commands

import (
	"fmt"

	"github.com/nyxgate/idmbroker/cmd/idmctl/cmdutil"
	"github.com/nyxgate/idmbroker/internal/protocol/idm"
	"github.com/spf13/cobra"
)

var infoSelector string

var selectorByName = map[string]idm.InfoSelector{
	"device-count": idm.InfoDeviceCount,
	"device-name":  idm.InfoDeviceName,
	"total-memory": idm.InfoTotalMemory,
	"free-memory":  idm.InfoFreeMemory,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Query device information (device-count, device-name, total-memory, free-memory)",
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().StringVar(&infoSelector, "selector", "device-count", "info field to query")
}

func runInfo(cmd *cobra.Command, args []string) error {
	selector, ok := selectorByName[infoSelector]
	if !ok {
		return fmt.Errorf("unknown selector %q", infoSelector)
	}

	sess, err := cmdutil.Connect()
	if err != nil {
		return err
	}
	defer sess.Close()

	req := idm.GetInfoRequest{Selector: selector}
	payload := make([]byte, 8)
	req.Encode(payload)

	resp, err := sess.Stub.Call(sess.Ctx, idm.KindGetInfo, payload)
	if err != nil {
		return err
	}
	if resp.Header.Kind == idm.KindError {
		return cmdutil.DecodeAndPrintError(resp.Payload)
	}
	ok2, err := idm.DecodeOKResponse(resp.Payload)
	if err != nil {
		return err
	}
	if selector == idm.InfoDeviceName {
		fmt.Printf("%s: %s\n", infoSelector, string(ok2.InlineData))
	} else {
		fmt.Printf("%s: %d\n", infoSelector, ok2.ResultScalar)
	}
	return nil
}
