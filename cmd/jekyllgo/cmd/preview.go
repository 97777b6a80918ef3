package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jekyllgo/jekyllgo/pkg/frontmatter"
	"github.com/jekyllgo/jekyllgo/pkg/model"
)

var previewTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

var previewCmd = &cobra.Command{
	Use:   "preview [path]",
	Short: "Render a post's Markdown body in the terminal",
	Long: `preview strips a document's front matter and renders the remaining
Markdown body with Glamour, without running it through Liquid or a layout.
Useful for a quick look at a draft before building the full site.

If path is omitted, the most recently modified file under _posts/ (falling
back to _drafts/) is used.

Example usage:
  jekyllgo preview _posts/2026-07-31-hello-world.md
  jekyllgo preview`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreviewCommand,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreviewCommand(_ *cobra.Command, args []string) error {
	source := sourceDirOrDot()

	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		found, err := mostRecentPost(source)
		if err != nil {
			return err
		}
		path = found
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	header, body, err := frontmatter.Parse(string(raw), false, model.Location{Path: path})
	if err != nil {
		return fmt.Errorf("parsing front matter in %s: %w", path, err)
	}

	title := filepath.Base(path)
	if v, ok := header.Get("title"); ok {
		if s, ok := v.(string); ok && s != "" {
			title = s
		}
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(previewWidth()),
	)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	rendered, err := renderer.Render(body)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}

	fmt.Println(previewTitleStyle.Render(title))
	fmt.Print(rendered)
	return nil
}

func previewWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		return w - 2
	}
	return 80
}

// mostRecentPost finds the most recently modified Markdown file under
// _posts/, falling back to _drafts/, under source.
func mostRecentPost(source string) (string, error) {
	for _, dir := range []string{"_posts", "_drafts"} {
		root := filepath.Join(source, dir)
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		var candidates []os.DirEntry
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if ext := filepath.Ext(e.Name()); ext == ".md" || ext == ".markdown" {
				candidates = append(candidates, e)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		sort.Slice(candidates, func(i, j int) bool {
			fi, _ := candidates[i].Info()
			fj, _ := candidates[j].Info()
			if fi == nil || fj == nil {
				return false
			}
			return fi.ModTime().After(fj.ModTime())
		})
		return filepath.Join(root, candidates[0].Name()), nil
	}
	return "", fmt.Errorf("no Markdown files found under %s", strings.TrimSuffix(source, "/")+"/_posts or _drafts")
}
