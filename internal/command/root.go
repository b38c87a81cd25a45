package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tyemirov/pushover/pkg/history"
	"github.com/tyemirov/pushover/pkg/pushover"
)

const (
	defaultOperationTimeout = 30 * time.Second
	defaultHistoryLimit     = 20
)

var (
	// ErrDeliveryRejected is returned after the API declined a message and its
	// errors were reported.
	ErrDeliveryRejected = errors.New("delivery rejected")
	ErrHistoryDisabled  = errors.New("delivery history is disabled; set PUSHOVER_HISTORY_PATH or history_path in the config file")
)

type MessageSender interface {
	Push(context.Context, pushover.Message) (*http.Response, error)
}

type DeliveryHistory interface {
	Record(context.Context, pushover.Message, pushover.Result) (history.Delivery, error)
	Recent(context.Context, int) ([]history.Delivery, error)
}

type Dependencies struct {
	Sender           MessageSender
	History          DeliveryHistory
	Builder          pushover.Builder
	OperationTimeout time.Duration
	DefaultToken     string
	DefaultUser      string
	Output           io.Writer
	Logger           *slog.Logger
	Version          string
}

func NewRootCommand(dependencies Dependencies) *cobra.Command {
	if dependencies.Logger == nil {
		dependencies.Logger = slog.New(slog.DiscardHandler)
	}

	root := buildSendCommand(dependencies)
	root.AddCommand(buildHistoryCommand(dependencies))
	return root
}

func buildSendCommand(dependencies Dependencies) *cobra.Command {
	var (
		parameters     pushover.Parameters
		retryInput     int
		expireInput    int
		timestampInput int64
		ttlInput       int
	)

	command := &cobra.Command{
		Use:           "push",
		Short:         "Send Pushover (https://pushover.net/) notifications from the command line",
		Version:       dependencies.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("token") {
				parameters.Token = dependencies.DefaultToken
			}
			if !flags.Changed("user") {
				parameters.User = dependencies.DefaultUser
			}
			parameters.Retry = changedInt(flags.Changed("retry"), retryInput)
			parameters.Expire = changedInt(flags.Changed("expire"), expireInput)
			parameters.TTL = changedInt(flags.Changed("ttl"), ttlInput)
			if flags.Changed("timestamp") {
				timestamp := timestampInput
				parameters.Timestamp = &timestamp
			}

			message, err := dependencies.Builder.Build(parameters)
			if err != nil {
				return err
			}

			return send(cmd.Context(), dependencies, message)
		},
	}

	flags := command.Flags()
	flags.StringVarP(&parameters.Token, "token", "t", "", "Application's API token (default from PUSHOVER_TOKEN)")
	flags.StringVarP(&parameters.User, "user", "u", "", "User or group key (default from PUSHOVER_USER)")
	flags.StringVarP(&parameters.Message, "message", "m", "", "Message")
	flags.StringVarP(&parameters.Priority, "priority", "p", "", "Priority: -2, -1, 0 (default), 1, or 2")
	flags.IntVarP(&retryInput, "retry", "r", 0, "How often (in seconds) the same priority 2 notification will be sent")
	flags.IntVarP(&expireInput, "expire", "e", 0, "How many seconds a priority 2 notification will continue to be retried for")
	flags.StringVar(&parameters.Callback, "callback", "", "URL requested when a priority 2 notification is acknowledged")
	flags.StringVarP(&parameters.Device, "device", "d", "", "Device name")
	flags.StringVarP(&parameters.Sound, "sound", "s", "", "Notification sound")
	flags.Int64Var(&timestampInput, "timestamp", 0, "UNIX timestamp")
	flags.StringVar(&parameters.Title, "title", "", "Message title")
	flags.IntVar(&ttlInput, "ttl", 0, "Number of seconds after which the notification will disappear")
	flags.StringVar(&parameters.URL, "url", "", "A supplementary URL to show with your message")
	flags.StringVar(&parameters.URLTitle, "url-title", "", "Title for the URL specified as the url parameter")
	flags.BoolVar(&parameters.HTML, "html", false, "Parse the message as HTML")
	flags.StringVarP(&parameters.AttachmentPath, "attachment", "a", "", "Path to an image file (optionally path::mime/type)")
	flags.StringVar(&parameters.AttachmentBase64, "attachment-base64", "", "Base64 attachment")
	flags.StringVar(&parameters.AttachmentType, "attachment-type", "", "Attachment MIME type")

	markRequired(command, "message")

	return command
}

func send(ctx context.Context, dependencies Dependencies, message pushover.Message) error {
	if dependencies.Sender == nil {
		return errors.New("message sender is not configured")
	}

	timeout := dependencies.OperationTimeout
	if timeout <= 0 {
		timeout = defaultOperationTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	response, err := dependencies.Sender.Push(ctx, message)
	if err != nil {
		return err
	}

	result, interpretErr := pushover.Interpret(response)
	if interpretErr != nil {
		dependencies.Logger.Warn("Reading Pushover response failed", "status", result.StatusCode, "error", interpretErr)
	}

	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}
	if reportErr := result.Report(output); reportErr != nil {
		return reportErr
	}

	if dependencies.History != nil {
		delivery, recordErr := dependencies.History.Record(ctx, message, result)
		if recordErr != nil {
			dependencies.Logger.Warn("Recording delivery failed", "error", recordErr)
		} else {
			dependencies.Logger.Debug("Recorded delivery", "delivery_id", delivery.DeliveryID)
		}
	}

	if !result.Success {
		dependencies.Logger.Info("Pushover rejected message", "status", result.StatusCode, "request", result.Request)
		return fmt.Errorf("%w: status %d", ErrDeliveryRejected, result.StatusCode)
	}

	dependencies.Logger.Info("Message delivered", "request", result.Request)
	return nil
}

func buildHistoryCommand(dependencies Dependencies) *cobra.Command {
	var limit int

	command := &cobra.Command{
		Use:   "history",
		Short: "List recently sent notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dependencies.History == nil {
				return ErrHistoryDisabled
			}
			if limit <= 0 {
				return fmt.Errorf("invalid limit %d: must be positive", limit)
			}

			deliveries, err := dependencies.History.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			output := dependencies.Output
			if output == nil {
				output = io.Discard
			}
			return writeDeliveries(output, deliveries)
		},
	}

	command.Flags().IntVar(&limit, "limit", defaultHistoryLimit, "Maximum number of deliveries to list")

	return command
}

func writeDeliveries(output io.Writer, deliveries []history.Delivery) error {
	tableWriter := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tableWriter, "SENT\tSTATUS\tPRIORITY\tREQUEST\tTITLE\tERRORS")
	for _, delivery := range deliveries {
		fmt.Fprintf(tableWriter, "%s\t%d\t%d\t%s\t%s\t%s\n",
			delivery.CreatedAt.UTC().Format(time.RFC3339),
			delivery.StatusCode,
			delivery.Priority,
			valueOrDash(delivery.RequestID),
			valueOrDash(delivery.Title),
			valueOrDash(strings.Join(delivery.ErrorLines(), "; ")),
		)
	}
	return tableWriter.Flush()
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func changedInt(changed bool, value int) *int {
	if !changed {
		return nil
	}
	return &value
}

func markRequired(cmd *cobra.Command, name string) {
	_ = cmd.MarkFlagRequired(name)
}
