package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/eppproxy/eppproxy/internal/cliout"
	"github.com/eppproxy/eppproxy/internal/cliprompt"
	"github.com/eppproxy/eppproxy/internal/registry"
	"github.com/eppproxy/eppproxy/pkg/eppgrpc"
)

var pollForce bool

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Inspect and drain a registry's poll message queue",
}

var pollPeekCmd = &cobra.Command{
	Use:   "peek",
	Short: "Peek at the head of the poll queue without dequeuing it",
	RunE:  runPollPeek,
}

var pollAckCmd = &cobra.Command{
	Use:   "ack <msg-id>",
	Short: "Acknowledge and dequeue a previously peeked message",
	Args:  cobra.ExactArgs(1),
	RunE:  runPollAck,
}

func init() {
	pollAckCmd.Flags().BoolVarP(&pollForce, "yes", "y", false, "skip the confirmation prompt")
	pollCmd.AddCommand(pollPeekCmd)
	pollCmd.AddCommand(pollAckCmd)
}

func runPollPeek(cmd *cobra.Command, args []string) error {
	msg, env, err := pollRoundTrip("")
	if err != nil {
		return err
	}
	if !msg.Present {
		fmt.Println("No messages queued.")
		return nil
	}
	cliout.SimpleTable(os.Stdout, [][2]string{
		{"Message ID", msg.ID},
		{"Queue date", msg.QDate},
		{"Count", fmt.Sprintf("%d", msg.Count)},
		{"Text", msg.Text},
		{"SvTRID", env.SvTRID},
	})
	return nil
}

func runPollAck(cmd *cobra.Command, args []string) error {
	msgID := args[0]
	ok, err := cliprompt.ConfirmWithForce(fmt.Sprintf("Acknowledge and dequeue message %s?", msgID), pollForce)
	if err != nil {
		if cliprompt.IsAborted(err) {
			fmt.Println("Aborted.")
			return nil
		}
		return err
	}
	if !ok {
		fmt.Println("Aborted.")
		return nil
	}

	_, env, err := pollRoundTrip(msgID)
	if err != nil {
		return err
	}
	fmt.Printf("Acknowledged %s (SvTRID %s)\n", msgID, env.SvTRID)
	return nil
}

// pollRoundTrip opens PollStream, sends one peek (ack == "") or ack request,
// and returns the decoded message plus the raw envelope.
func pollRoundTrip(ack string) (registry.PollMessage, *eppgrpc.Envelope, error) {
	cc, err := dialServer()
	if err != nil {
		return registry.PollMessage{}, nil, err
	}
	defer cc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stream, err := eppgrpc.OpenPollStream(ctx, cc)
	if err != nil {
		return registry.PollMessage{}, nil, fmt.Errorf("open poll stream: %w", err)
	}

	req := &eppgrpc.PollStreamRequest{Selector: eppgrpc.Selector{RegistryID: registryID}, Ack: ack}
	if err := stream.SendMsg(req); err != nil {
		return registry.PollMessage{}, nil, fmt.Errorf("send poll request: %w", err)
	}

	resp := new(eppgrpc.PollStreamResponse)
	if err := stream.RecvMsg(resp); err != nil {
		return registry.PollMessage{}, nil, fmt.Errorf("receive poll response: %w", err)
	}
	_ = stream.CloseSend()

	var msg registry.PollMessage
	if err := json.Unmarshal(resp.Envelope.Value, &msg); err != nil {
		return registry.PollMessage{}, nil, fmt.Errorf("decode poll message: %w", err)
	}
	return msg, &resp.Envelope, nil
}
