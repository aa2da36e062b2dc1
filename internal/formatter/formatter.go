// package formatter provides functions to export a favorites list to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/michaelRS2002/Popfix-front/internal/models"
	"github.com/michaelRS2002/Popfix-front/internal/shared"
)

// ExportToCSV converts a favorites list to CSV format with columns: ID, Title, Genre, Duration, Rating
func ExportToCSV(edges []models.FavoriteEdge) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Genre", "Duration", "Rating"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, edge := range edges {
		rating := ""
		if edge.Rated() {
			rating = strconv.Itoa(edge.Rating)
		}

		record := []string{
			edge.MovieID,
			edge.Movie.Title,
			edge.Movie.Genre,
			edge.Movie.DurationLabel,
			rating,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a favorites list to Markdown format
func ExportToMarkdown(edges []models.FavoriteEdge, owner string) ([]byte, error) {
	var buf bytes.Buffer

	title := "Favorites"
	if owner != "" {
		title = fmt.Sprintf("%s's Favorites", owner)
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n\n", len(edges)))

	buf.WriteString("## Movies\n\n")
	for i, edge := range edges {
		stars := ""
		if edge.Rated() {
			stars = " " + strings.Repeat("*", edge.Rating)
		}
		durationPart := ""
		if edge.Movie.DurationLabel != "" {
			durationPart = fmt.Sprintf(" [%s]", edge.Movie.DurationLabel)
		}
		buf.WriteString(fmt.Sprintf("%d. %s (%s)%s%s\n", i+1, edge.Movie.Title, edge.Movie.Genre, durationPart, stars))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a favorites list to plain text format
func ExportToText(edges []models.FavoriteEdge) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Favorites: %d\n\n", len(edges)))

	for i, edge := range edges {
		rating := "unrated"
		if edge.Rated() {
			rating = fmt.Sprintf("%d/5", edge.Rating)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, edge.Movie.Title, rating))
	}

	return buf.Bytes(), nil
}

// ToJSON generates a JSON representation of the favorites list
func ToJSON(edges []models.FavoriteEdge) ([]byte, error) {
	return shared.MarshalJSON(edges, true)
}

// WriteExport renders the favorites list in the given format and writes it to
// path. The format is inferred from the path extension when empty.
func WriteExport(edges []models.FavoriteEdge, owner, format, path string) error {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}

	var (
		data []byte
		err  error
	)

	switch strings.ToLower(format) {
	case "csv":
		data, err = ExportToCSV(edges)
	case "md", "markdown":
		data, err = ExportToMarkdown(edges, owner)
	case "txt", "text":
		data, err = ExportToText(edges)
	case "json":
		data, err = ToJSON(edges)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	return nil
}
