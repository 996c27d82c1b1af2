// Package render writes the query structure annotated with conservation
// scores.
//
// All water records of the input are dropped except the conserved waters of
// the query chain, whose B-factor column (61-66) is replaced by their
// conservation score. Every other record is copied unchanged, so the output
// opens in any molecular viewer with the conserved waters colored by score.
package render

import (
	"bufio"
	"bytes"
	"fmt"

	"github.com/hupe1980/cwater/structure"
)

const bFactorStart, bFactorEnd = 60, 66

// Annotate rewrites raw for chain. scores maps a water serial to its score.
func Annotate(raw []byte, chain string, scores map[int]float64) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(raw))

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if !keep(line, chain, scores) {
			continue
		}
		if isHetatm(line) {
			if w, ok := structure.WaterRecord(line); ok {
				if score, ok := waterScore(w, chain, scores); ok {
					line = withBFactor(line, score)
				}
			}
		}
		out.Write(line)
		out.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return out.Bytes(), nil
}

// keep drops every water record except the first alternate location of a
// conserved water of chain.
func keep(line []byte, chain string, scores map[int]float64) bool {
	w, ok := structure.WaterRecord(line)
	if !ok {
		return true
	}
	_, conserved := waterScore(w, chain, scores)
	return conserved
}

func waterScore(w structure.WaterLine, chain string, scores map[int]float64) (float64, bool) {
	if w.Chain != chain || !w.Primary {
		return 0, false
	}
	score, ok := scores[w.Serial]
	return score, ok
}

func isHetatm(line []byte) bool {
	return bytes.HasPrefix(line, []byte("HETATM"))
}

// withBFactor returns a copy of line with the B-factor field set to score.
func withBFactor(line []byte, score float64) []byte {
	n := len(line)
	if n < bFactorEnd {
		n = bFactorEnd
	}
	out := make([]byte, n)
	copy(out, line)
	for i := len(line); i < n; i++ {
		out[i] = ' '
	}
	copy(out[bFactorStart:bFactorEnd], fmt.Sprintf("%6.2f", score))
	return out
}
