package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/foundriesio/impctl/client"
	"github.com/foundriesio/impctl/subcommands"
)

var api *client.Api

func NewCommand() *cobra.Command {
	httpCmd := &cobra.Command{
		Use:    "http",
		Short:  "Run a direct authenticated HTTP command against the Build API",
		Hidden: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			api = subcommands.Login(cmd)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <url|path> [header=val..]",
		Short: "Do an authenticated HTTP GET",
		RunE:  doGet,
		Args:  cobra.MinimumNArgs(1),
	}
	httpCmd.AddCommand(getCmd)

	postCmd := &cobra.Command{
		Use:   "post <url|path> [header=val..]",
		Short: "Do an authenticated HTTP POST",
		RunE:  doPost,
		Args:  cobra.MinimumNArgs(1),
		Example: `# Create a model:
impctl http post -d '{"name": "lamp"}' models/

# Post data from a file:
impctl http post -d @/tmp/revision.json models/<model-id>/revisions

# Post data from STDIN:
echo '{"name": "lamp"}' | impctl http post -d - https://build.electricimp.com/v4/models/
`,
	}
	postCmd.Flags().StringP("data", "d", "", "HTTP POST data")
	httpCmd.AddCommand(postCmd)

	return httpCmd
}

func doGet(cmd *cobra.Command, args []string) error {
	res, err := api.RawGet(resolveUrl(args[0]), readHeaders(args[1:]))
	if err != nil {
		return err
	}
	return printResponse(res, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func doPost(cmd *cobra.Command, args []string) error {
	flag, _ := cmd.Flags().GetString("data")
	data, err := readData(flag, cmd.InOrStdin())
	if err != nil {
		return err
	}
	res, err := api.RawPost(resolveUrl(args[0]), data, readHeaders(args[1:]))
	if err != nil {
		return err
	}
	return printResponse(res, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// resolveUrl lets paths like "devices" be given relative to the Build API.
func resolveUrl(arg string) string {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return arg
	}
	return api.ServerUrl() + "/" + strings.TrimLeft(arg, "/")
}

func readHeaders(args []string) *map[string]string {
	if len(args) == 0 {
		return nil
	}
	headers := make(map[string]string, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) == 1 {
			headers[arg] = ""
		} else {
			headers[parts[0]] = parts[1]
		}
	}
	return &headers
}

// readData resolves the --data flag: "-" is stdin, "@path" a file, anything
// else the literal body. The Build API only accepts JSON so the body is
// checked before it is sent.
func readData(flag string, stdin io.Reader) ([]byte, error) {
	var data []byte
	var err error
	switch {
	case flag == "-":
		logrus.Debug("Reading post data from stdin")
		data, err = io.ReadAll(stdin)
	case strings.HasPrefix(flag, "@"):
		logrus.Debugf("Reading post data from %s", flag[1:])
		data, err = os.ReadFile(flag[1:])
	default:
		data = []byte(flag)
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []byte{}, nil
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("POST data is not valid JSON: %s", data)
	}
	return data, nil
}

// printResponse writes the status line and headers to errOut and the body
// to out, indenting JSON bodies. Statuses outside the Build API success
// codes are returned as a *client.HttpError after the body is printed.
func printResponse(res *http.Response, out, errOut io.Writer) error {
	defer res.Body.Close()
	fmt.Fprintf(errOut, "< Status: %s\n", res.Status)
	keys := maps.Keys(res.Header)
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(errOut, "< %s: %s\n", k, strings.Join(res.Header[k], ", "))
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	body := raw
	var pretty bytes.Buffer
	if strings.Contains(res.Header.Get("Content-Type"), "json") && json.Indent(&pretty, bytes.TrimSpace(raw), "", "  ") == nil {
		pretty.WriteByte('\n')
		body = pretty.Bytes()
	}
	if _, err := out.Write(body); err != nil {
		return err
	}

	if !client.StatusOk(res.StatusCode) {
		return &client.HttpError{
			Method:     res.Request.Method,
			Url:        res.Request.URL.String(),
			StatusCode: res.StatusCode,
			Body:       raw,
		}
	}
	return nil
}
