package validate

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/rocketshoes_cart/internal/domain"
	"github.com/Gunvolt24/rocketshoes_cart/internal/ports"
)

// InputFormat — формат входа CLI.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"  // одна корзина (дамп слота)
	FormatJSONL InputFormat = "jsonl" // по корзине на строку
)

// Summary — итог проверки.
type Summary struct {
	Valid   int
	Invalid int
}

func (s Summary) String() string { return fmt.Sprintf("%d valid / %d invalid", s.Valid, s.Invalid) }

// ResolveFormat — auto по расширению файла; всё, что не .jsonl, читаем как JSON.
func ResolveFormat(path string, format InputFormat) InputFormat {
	if format != FormatAuto {
		return format
	}
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return FormatJSONL
	}
	return FormatJSON
}

// ValidateFile — открывает файл и делегирует в ValidateReader.
func ValidateFile(ctx context.Context, validator ports.CartValidator, path string, format InputFormat, ow io.Writer) (Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return ValidateReader(ctx, validator, file, ResolveFormat(path, format), ow)
}

// ValidateReader — валидирует вход и пишет канонический JSON валидных корзин в ow (по одной на строку).
// Для JSON невалидная корзина — ошибка; для JSONL невалидные строки только считаются.
func ValidateReader(ctx context.Context, validator ports.CartValidator, ir io.Reader, format InputFormat, ow io.Writer) (Summary, error) {
	switch format {
	case FormatJSON:
		raw, err := io.ReadAll(ir)
		if err != nil {
			return Summary{}, fmt.Errorf("read input: %w", err)
		}
		cart, err := ValidateCartFromJSON(ctx, validator, raw)
		if err != nil {
			return Summary{Invalid: 1}, err
		}
		if err := writeCanonical(ow, cart); err != nil {
			return Summary{}, err
		}
		return Summary{Valid: 1}, nil

	case FormatJSONL:
		return validateLines(ctx, validator, ir, ow)

	default:
		return Summary{}, fmt.Errorf("unsupported format: %s", format)
	}
}

func validateLines(ctx context.Context, validator ports.CartValidator, ir io.Reader, ow io.Writer) (Summary, error) {
	var sum Summary

	scanner := bufio.NewScanner(ir)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		cart, err := ValidateCartFromJSON(ctx, validator, line)
		if err != nil {
			sum.Invalid++
			continue
		}
		if err := writeCanonical(ow, cart); err != nil {
			return sum, err
		}
		sum.Valid++
	}
	if err := scanner.Err(); err != nil {
		return sum, fmt.Errorf("scan: %w", err)
	}
	return sum, nil
}

func writeCanonical(ow io.Writer, cart domain.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	raw = append(raw, '\n')
	if _, err := ow.Write(raw); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	return nil
}
