package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/ukaji3/xlview-go/internal/config"
	"github.com/ukaji3/xlview-go/internal/tui"
	"github.com/ukaji3/xlview-go/pkg/xlview"
	"github.com/ukaji3/xlview-go/pkg/xlview/catalog"
	"github.com/ukaji3/xlview-go/pkg/xlview/models"
	"github.com/ukaji3/xlview-go/pkg/xlview/output"
	"github.com/ukaji3/xlview-go/pkg/xlview/search"
	"github.com/ukaji3/xlview-go/pkg/xlview/viewer"
)

var (
	okColor    = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	titleColor = color.New(color.FgCyan, color.Bold)
	matchColor = color.New(color.FgBlack, color.BgYellow)
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xlview",
		Short: "Browse and search spreadsheets in your folders",
		Long: `xlview keeps a list of folders, lists the spreadsheets (.xlsx, .xlsm, .xls)
they contain, and shows their sheets as read-only grids with search.

Run without a command to start the interactive viewer.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal() {
				return runFiles(cmd, output.FormatTable)
			}
			return runTUI(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default: config.yaml in the settings directory)")
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newTUICmd(),
		newFoldersCmd(),
		newFilesCmd(),
		newShowCmd(),
		newSearchCmd(),
		newOpenCmd(),
	)
	return rootCmd
}

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd)
		},
	}
}

func runTUI(cmd *cobra.Command) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	v := a.newViewer(viewer.SystemOpener{})
	if a.cfg.Catalog.Watch {
		go func() {
			if err := v.Watch(ctx, catalog.DefaultDebounce); err != nil {
				a.logger.Error("folder watcher stopped", "error", err)
			}
		}()
	}
	return tui.Run(ctx, v)
}

func newFoldersCmd() *cobra.Command {
	foldersCmd := &cobra.Command{
		Use:   "folders",
		Short: "Manage registered folders",
	}

	foldersCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			paths := a.registry.Paths()
			if len(paths) == 0 {
				_, _ = fmt.Fprintln(out, "(no folders)")
				return nil
			}
			for _, p := range paths {
				_, _ = fmt.Fprintln(out, p)
			}
			return nil
		},
	})

	foldersCmd.AddCommand(&cobra.Command{
		Use:   "add <path>...",
		Short: "Register folders",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			for _, arg := range args {
				path, err := filepath.Abs(arg)
				if err != nil {
					return fmt.Errorf("invalid path %s: %w", arg, err)
				}
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("folder not found: %s", arg)
				}
				if !info.IsDir() {
					return fmt.Errorf("not a folder: %s", arg)
				}
				if a.registry.Add(cmd.Context(), path) {
					_, _ = okColor.Fprintf(out, "added %s\n", path)
				} else {
					_, _ = warnColor.Fprintf(out, "already registered: %s\n", path)
				}
			}
			return nil
		},
	})

	foldersCmd.AddCommand(&cobra.Command{
		Use:   "remove <path>...",
		Short: "Unregister folders",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			for _, arg := range args {
				path := arg
				if !a.registry.Contains(path) {
					if abs, err := filepath.Abs(arg); err == nil {
						path = abs
					}
				}
				if a.registry.Remove(cmd.Context(), path) {
					_, _ = okColor.Fprintf(out, "removed %s\n", path)
				} else {
					_, _ = warnColor.Fprintf(out, "not registered: %s\n", arg)
				}
			}
			return nil
		},
	})

	return foldersCmd
}

func newFilesCmd() *cobra.Command {
	var format string
	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "List spreadsheets in the registered folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			return runFiles(cmd, f)
		},
	}
	filesCmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, csv, markdown, json, yaml")
	return filesCmd
}

func runFiles(cmd *cobra.Command, format output.Format) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	files := a.catalog.Scan(cmd.Context(), a.registry.Paths())
	return output.RenderFiles(cmd.OutOrStdout(), files, format, catalog.FormatSize)
}

func newShowCmd() *cobra.Command {
	var (
		format    string
		sheetName string
		maxRows   int
		highlight string
		pretty    bool
	)
	showCmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print a sheet of a spreadsheet",
		Long: `Print a sheet of a spreadsheet. Without --sheet the first sheet is shown;
json and yaml output without --sheet contain the whole workbook.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			wb, err := xlview.DecodeFile(args[0], a.cfg.DecodeOptions())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if sheetName == "" && (f == output.FormatJSON || f == output.FormatYAML) {
				return writeWorkbook(out, wb, f, pretty)
			}

			idx, err := pickSheet(wb, sheetName)
			if err != nil {
				return err
			}
			sheet := &wb.Sheets[idx]

			opts := output.SheetOptions{MaxRows: maxRows}
			if highlight != "" {
				matches := make(map[models.SearchMatch]bool)
				for _, m := range search.Find(wb, highlight) {
					matches[m] = true
				}
				opts.Decorate = func(row, col int, text string) string {
					if matches[models.SearchMatch{SheetIndex: idx, Row: row, Col: col}] {
						return matchColor.Sprint(text)
					}
					return text
				}
			}

			if f == output.FormatTable {
				_, _ = titleColor.Fprintf(out, "%s [%s] (%d/%d)\n", wb.FileName, sheet.Name, idx+1, len(wb.Sheets))
			}
			return output.RenderSheet(out, sheet, f, opts)
		},
	}
	showCmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, csv, markdown, json, yaml")
	showCmd.Flags().StringVarP(&sheetName, "sheet", "s", "", "Sheet name or 1-based index")
	showCmd.Flags().IntVar(&maxRows, "limit", 0, "Maximum rows to print (0 for all)")
	showCmd.Flags().StringVar(&highlight, "highlight", "", "Highlight cells containing this text")
	showCmd.Flags().BoolVar(&pretty, "pretty", true, "Pretty-print JSON output")
	return showCmd
}

func writeWorkbook(out io.Writer, wb *models.ParsedWorkbook, f output.Format, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if f == output.FormatJSON {
		data, err = output.ToJSON(wb, pretty)
		if err == nil {
			data = append(data, '\n')
		}
	} else {
		data, err = output.ToYAML(wb)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// pickSheet resolves a sheet by exact name first, then by 1-based index.
func pickSheet(wb *models.ParsedWorkbook, ref string) (int, error) {
	if len(wb.Sheets) == 0 {
		return 0, fmt.Errorf("%s has no sheets", wb.FileName)
	}
	if ref == "" {
		return 0, nil
	}
	for i, s := range wb.Sheets {
		if s.Name == ref {
			return i, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(wb.Sheets) {
		return n - 1, nil
	}
	return 0, fmt.Errorf("sheet not found: %s (available: %v)", ref, wb.SheetNames())
}

func newSearchCmd() *cobra.Command {
	var format string
	searchCmd := &cobra.Command{
		Use:   "search <file> <query>",
		Short: "Find cells containing text (case-insensitive)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			wb, err := xlview.DecodeFile(args[0], a.cfg.DecodeOptions())
			if err != nil {
				return err
			}
			return output.RenderMatches(cmd.OutOrStdout(), wb, search.Find(wb, args[1]), f)
		},
	}
	searchCmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, csv, markdown, json, yaml")
	return searchCmd
}

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <file>",
		Short: "Open a spreadsheet in its default application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("file not found: %s", args[0])
			}
			return a.newViewer(openerFromContext(cmd)).OpenExternal(path)
		},
	}
}
