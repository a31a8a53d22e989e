package cart

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
)

const listHeader = "Список покупок"

// RenderText — плоский текстовый отчёт: заголовок и строка
// "название (единица) - количество" на каждую позицию.
func RenderText(items []Item) []byte {
	var buf bytes.Buffer
	buf.WriteString(listHeader + "\n\n")
	for _, it := range items {
		fmt.Fprintf(&buf, "%s (%s) - %d\n", it.Name, it.Unit, it.Amount)
	}
	return buf.Bytes()
}

// RenderPDF рендерит тот же список одностраничным PDF.
// Кириллица идёт через cp1251-транслятор — core-шрифты gofpdf
// не умеют UTF-8 напрямую.
func RenderPDF(items []Item) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1251")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(listHeader))
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	for _, it := range items {
		pdf.Cell(0, 8, tr(fmt.Sprintf("%s (%s) - %d", it.Name, it.Unit, it.Amount)))
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
