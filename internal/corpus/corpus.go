// Package corpus は出題対象の単語リストを読み込みます。読み込み後は変更しません。
package corpus

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultWords はファイルが無い場合のフォールバック
var DefaultWords = []string{"example", "test", "words"}

// Normalize は前後の空白を除去して小文字化します (回答の比較にも使う)
func Normalize(text string) string {
	// Caser は goroutine 間で共有できないので毎回作る
	return cases.Lower(language.Und).String(strings.TrimSpace(text))
}

type Corpus struct {
	words []string
	index map[string]struct{}
}

// New は与えられた単語を正規化して Corpus を作ります。重複は除去しません
func New(words []string) *Corpus {
	normalized := make([]string, 0, len(words))
	index := make(map[string]struct{}, len(words))
	for _, w := range words {
		if n := Normalize(w); n != "" {
			normalized = append(normalized, n)
			index[n] = struct{}{}
		}
	}
	return &Corpus{words: normalized, index: index}
}

// Load は path から単語リストを読み込みます。
// 読めない場合や空の場合は DefaultWords にフォールバックし、起動は止めません。
func Load(path string, logger *slog.Logger) *Corpus {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("word_list_path", path)

	words, err := readWords(path)
	if err != nil {
		logger.Warn("Failed to load word list, using built-in default words", "error", err)
		return New(DefaultWords)
	}

	c := New(words)
	if c.Len() == 0 {
		logger.Warn("Word list is empty, using built-in default words")
		return New(DefaultWords)
	}

	logger.Info("Word list loaded", "count", c.Len())
	return c
}

func (c *Corpus) Words() []string {
	out := make([]string, len(c.words))
	copy(out, c.words)
	return out
}

func (c *Corpus) Len() int {
	return len(c.words)
}

// Contains は保存済みセッションの単語がまだ出題対象かを調べるのに使う
func (c *Corpus) Contains(word string) bool {
	_, ok := c.index[Normalize(word)]
	return ok
}

func readWords(path string) ([]string, error) {
	if path == "" {
		return nil, errors.New("word list path is empty")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readExcel(path)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("corpus.readWords: %w", err)
		}
		defer f.Close()
		return readCSV(f)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("corpus.readWords: %w", err)
		}
		defer f.Close()
		return readLines(f)
	}
}

// readCSV は各レコードの先頭カラムだけを使います
func readCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var words []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("corpus.readCSV: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		words = append(words, record[0])
	}
	return words, nil
}

func readLines(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("corpus.readLines: %w", err)
	}
	return words, nil
}

// readExcel は最初のシートのA列を読みます
func readExcel(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpus.readExcel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("corpus.readExcel: workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("corpus.readExcel: %w", err)
	}

	var words []string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		words = append(words, row[0])
	}
	return words, nil
}
