package tabular

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Row - строка таблицы, ключи берутся из заголовка
type Row = map[string]string

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var ErrEmptyInput = errors.New("tabular: empty input")

// ParseCSV разбирает текст с заголовком.
// Разделитель (",", ";" или tab) определяется по первой строке.
// Если encoding/csv не справился, используется построчный разбор.
func ParseCSV(data []byte) ([]Row, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}

	delim := detectDelimiter(data)
	rows, err := parseWithReader(data, delim)
	if err == nil {
		return rows, nil
	}
	return parseByLines(data, delim), nil
}

func detectDelimiter(data []byte) rune {
	firstLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = data[:i]
	}
	best, bestCount := ',', bytes.Count(firstLine, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if c := bytes.Count(firstLine, []byte(string(d))); c > bestCount {
			best, bestCount = d, c
		}
	}
	return best
}

func parseWithReader(data []byte, delim rune) ([]Row, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = cleanHeader(header)

	var rows []Row
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, zipRow(header, record))
	}
	return rows, nil
}

// parseByLines - запасной разбор без поддержки кавычек внутри полей
func parseByLines(data []byte, delim rune) []Row {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	var header []string
	var rows []Row
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, string(delim))
		for i := range fields {
			fields[i] = strings.Trim(strings.TrimSpace(fields[i]), `"`)
		}
		if header == nil {
			header = cleanHeader(fields)
			continue
		}
		rows = append(rows, zipRow(header, fields))
	}
	return rows
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func zipRow(header, record []string) Row {
	row := make(Row, len(header))
	for i, key := range header {
		if key == "" {
			continue
		}
		if i < len(record) {
			row[key] = strings.TrimSpace(record[i])
		} else {
			row[key] = ""
		}
	}
	return row
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// JSONBatch - тело bulk-запроса в JSON
type JSONBatch struct {
	Rows       []Row
	CampaignID string
}

// ParseJSONRows принимает массив объектов или {"rows": [...], "campaign_id": "..."}.
// Нестроковые значения приводятся к строке.
func ParseJSONRows(data []byte) (*JSONBatch, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	var raw []map[string]interface{}
	batch := &JSONBatch{}

	if data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse rows: %w", err)
		}
	} else {
		var envelope struct {
			Rows       []map[string]interface{} `json:"rows"`
			CampaignID string                   `json:"campaign_id"`
			CampaignId string                   `json:"campaignId"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, fmt.Errorf("parse rows: %w", err)
		}
		raw = envelope.Rows
		batch.CampaignID = envelope.CampaignID
		if batch.CampaignID == "" {
			batch.CampaignID = envelope.CampaignId
		}
	}

	batch.Rows = make([]Row, 0, len(raw))
	for _, item := range raw {
		row := make(Row, len(item))
		for k, v := range item {
			row[k] = Stringify(v)
		}
		batch.Rows = append(batch.Rows, row)
	}
	return batch, nil
}

// Stringify приводит JSON-значение к строке без экспоненты для чисел
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// WriteCSV пишет таблицу с UTF-8 BOM и CRLF, чтобы файл корректно открывался в Excel
func WriteCSV(w io.Writer, header []string, records [][]string) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}
