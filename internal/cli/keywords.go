package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/voordathetnieuwswas/vhnw/internal/extract"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
)

var (
	kwTitle string
	kwSite  string
	kwCity  string
)

// keywordsCmd represents the keywords command
var keywordsCmd = &cobra.Command{
	Use:   "keywords [url | -]",
	Short: "Extract the search keywords of an article",
	Long: `Keywords shows the keywords vhnw would search for, without querying the
index. Pass an article URL, or "-" to read the article body from stdin
(one paragraph per line).

Example:
  vhnw keywords https://www.rtvutrecht.nl/nieuws/3500000/raad-stemt-in
  cat artikel.txt | vhnw keywords - --title "Raad stemt in met woonwijk" --site https://www.rtvutrecht.nl/`,
	Args: cobra.ExactArgs(1),
	RunE: runKeywords,
}

func init() {
	rootCmd.AddCommand(keywordsCmd)

	keywordsCmd.Flags().StringVar(&kwTitle, "title", "", "article title (stdin input)")
	keywordsCmd.Flags().StringVar(&kwSite, "site", "", "article URL selecting the site adapter (stdin input)")
	keywordsCmd.Flags().StringVar(&kwCity, "city", "", "city text (stdin input)")
}

type keywordsView struct {
	URL       string         `json:"url,omitempty"`
	Adapter   string         `json:"adapter"`
	IsArticle bool           `json:"is_article"`
	Title     string         `json:"title"`
	Keywords  model.Keywords `json:"keywords"`
}

func runKeywords(cmd *cobra.Command, args []string) error {
	var view keywordsView

	if args[0] == "-" {
		article, err := readArticle(cmd.InOrStdin())
		if err != nil {
			return err
		}

		// extraction only needs the adapters
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		words, err := newWords(cfg)
		if err != nil {
			return err
		}
		registry, err := newRegistry(words, cfg)
		if err != nil {
			return err
		}

		adapter := registry.FindAdapter(kwSite)
		view = keywordsView{
			URL:       kwSite,
			Adapter:   adapter.Name,
			IsArticle: true,
			Title:     article.Title,
			Keywords:  adapter.Keywords(article),
		}
	} else {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		ex, err := a.pipeline.ExtractURL(ctx, args[0])
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}
		view = keywordsView{
			URL:       ex.URL,
			Adapter:   ex.Adapter,
			IsArticle: ex.IsArticle,
			Title:     ex.Article.Title,
			Keywords:  ex.Keywords,
		}
	}

	if view.Keywords == nil {
		view.Keywords = model.Keywords{}
	}
	if jsonOutput() {
		return writeJSON(cmd.OutOrStdout(), view)
	}

	w := cmd.OutOrStdout()
	if view.URL != "" {
		fmt.Fprintf(w, "URL:       %s\n", view.URL)
	}
	fmt.Fprintf(w, "Adapter:   %s\n", view.Adapter)
	fmt.Fprintf(w, "Title:     %s\n", view.Title)
	if !view.IsArticle {
		fmt.Fprintln(w, "Warning:   page does not look like an article")
	}
	fmt.Fprintf(w, "Keywords:  %s\n", joinKeywords(view.Keywords))
	return nil
}

// readArticle reads body paragraphs from r, one per non-empty line
func readArticle(r io.Reader) (extract.Article, error) {
	article := extract.Article{Title: kwTitle, CityText: kwCity}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			article.Body = append(article.Body, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return article, fmt.Errorf("error reading article: %w", err)
	}
	return article, nil
}
