package sheets

import "fmt"

// colToIndex converts a spreadsheet column letter to its zero-based index
// ("A" -> 0, "Z" -> 25, "AA" -> 26). Invalid runes are ignored.
func colToIndex(col string) int {
	idx := 0
	for _, r := range col {
		if r < 'A' || r > 'Z' {
			continue
		}
		idx = idx*26 + int(r-'A') + 1
	}
	return idx - 1
}

// indexToCol is the inverse of colToIndex (0 -> "A", 26 -> "AA").
func indexToCol(idx int) string {
	if idx < 0 {
		return ""
	}
	col := ""
	for idx >= 0 {
		col = string(rune('A'+idx%26)) + col
		idx = idx/26 - 1
	}
	return col
}

// ShiftColumn returns the column letter offset places to the right of col.
func ShiftColumn(col string, offset int) string {
	return indexToCol(colToIndex(col) + offset)
}

// cellRange renders an A1-style range within a worksheet, open-ended on rows
// ("Sheet1!B2:H").
func cellRange(worksheet, fromCol, toCol string, startRow int) string {
	return fmt.Sprintf("%s!%s%d:%s", worksheet, fromCol, startRow, toCol)
}
