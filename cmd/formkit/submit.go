package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/formkit/form"
	"github.com/dmitrymomot/formkit/pkg/config"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

// ErrSubmitFailed is returned when a submission ends without success.
var ErrSubmitFailed = errors.New("submission failed")

type submitOptions struct {
	data    string
	fields  []string
	files   []string
	headers []string
	timeout time.Duration
	verbose bool
}

var submitOpts submitOptions

var submitCmd = &cobra.Command{
	Use:   "submit METHOD URL",
	Short: "Submit a form to an HTTP endpoint",
	Long: `Build a form from a YAML values file, --field and --file flags and
submit it. Forms holding a file are sent as multipart/form-data with upload
progress, everything else as JSON (query parameters for GET).

Keys may be dot-joined to build nested values: --field address.city=Oslo.

  formkit submit POST http://localhost:8080/users \
    --field email=a@b.com --field password=longenough --file avatar=me.png`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []config.Option
		if envFile != "" {
			opts = append(opts, config.WithEnvFiles(envFile))
		}
		clientCfg, err := config.Parse[form.ClientConfig](opts...)
		if err != nil {
			return err
		}
		return runSubmit(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), clientCfg, args[0], args[1], submitOpts)
	},
}

func init() {
	f := submitCmd.Flags()
	f.StringVarP(&submitOpts.data, "data", "d", "", "YAML or JSON file with initial values")
	f.StringArrayVarP(&submitOpts.fields, "field", "F", nil, "field value as key=value (repeatable)")
	f.StringArrayVar(&submitOpts.files, "file", nil, "file field as key=path (repeatable)")
	f.StringArrayVarP(&submitOpts.headers, "header", "H", nil, "request header as 'Name: value' (repeatable)")
	f.DurationVar(&submitOpts.timeout, "timeout", 0, "submission timeout (overrides FORMKIT_TIMEOUT)")
	f.BoolVarP(&submitOpts.verbose, "verbose", "v", false, "log the request lifecycle to stderr")
	rootCmd.AddCommand(submitCmd)
}

// runSubmit submits the form and prints the outcome. Validation errors are
// printed one per line as "field: message".
func runSubmit(ctx context.Context, stdout, stderr io.Writer, cfg form.ClientConfig, method, target string, opts submitOptions) error {
	values, err := buildValues(opts)
	if err != nil {
		return err
	}

	formOpts := []form.Option{}
	if opts.verbose {
		formOpts = append(formOpts, form.WithLogger(logger.New(
			logger.WithOutput(stderr),
			logger.WithFormat(logger.FormatText),
			logger.WithLevel(slog.LevelDebug),
		)))
	}
	f := form.NewFromConfig(cfg, values, formOpts...)

	callbacks := []form.SubmitOption{
		form.OnProgress(func(pct int) {
			fmt.Fprintf(stderr, "\ruploading... %3d%%", pct)
			if pct >= 100 {
				fmt.Fprintln(stderr)
			}
		}),
	}
	for _, h := range opts.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return fmt.Errorf("invalid header %q: expected 'Name: value'", h)
		}
		callbacks = append(callbacks, form.WithHeader(strings.TrimSpace(name), strings.TrimSpace(value)))
	}
	if opts.timeout > 0 {
		callbacks = append(callbacks, form.WithTimeout(opts.timeout))
	}

	var (
		resp      *form.Response
		submitErr error
	)
	callbacks = append(callbacks,
		form.OnSuccess(func(r *form.Response) { resp = r }),
		form.OnError(func(err error) { submitErr = err }),
	)
	f.Submit(ctx, method, target, callbacks...)

	if resp != nil {
		fmt.Fprintf(stdout, "%d %s\n", resp.StatusCode, strings.TrimSpace(string(resp.Raw)))
		return nil
	}

	if f.HasErrors() {
		errs := f.Errors()
		fields := make([]string, 0, len(errs))
		for field := range errs {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(stdout, "%s: %s\n", field, errs[field])
		}
	}
	if submitErr != nil {
		fmt.Fprintln(stderr, submitErr)
	}
	return ErrSubmitFailed
}

// buildValues merges the --data file with --field and --file flags.
// Flags win over file values.
func buildValues(opts submitOptions) (map[string]any, error) {
	values := map[string]any{}
	if opts.data != "" {
		raw, err := os.ReadFile(opts.data)
		if err != nil {
			return nil, fmt.Errorf("read values: %w", err)
		}
		if err := yaml.Unmarshal(raw, &values); err != nil {
			return nil, fmt.Errorf("parse values %s: %w", opts.data, err)
		}
		if values == nil {
			values = map[string]any{}
		}
	}

	for _, kv := range opts.fields {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q: expected key=value", kv)
		}
		if err := setValue(values, key, value); err != nil {
			return nil, err
		}
	}
	for _, kv := range opts.files {
		key, path, ok := strings.Cut(kv, "=")
		if !ok || key == "" || path == "" {
			return nil, fmt.Errorf("invalid file %q: expected key=path", kv)
		}
		file, err := form.OpenFile(path)
		if err != nil {
			return nil, err
		}
		if err := setValue(values, key, file); err != nil {
			return nil, err
		}
	}
	return values, nil
}

// setValue assigns v at a dot-joined key, creating intermediate maps.
func setValue(values map[string]any, key string, v any) error {
	parts := strings.Split(key, ".")
	m := values
	for i, part := range parts[:len(parts)-1] {
		next, ok := m[part]
		if !ok || next == nil {
			child := map[string]any{}
			m[part] = child
			m = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("invalid field %q: %s is not an object", key, strings.Join(parts[:i+1], "."))
		}
		m = child
	}
	m[parts[len(parts)-1]] = v
	return nil
}
