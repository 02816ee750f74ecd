// Package serial generates QR serial numbers: a four-letter prefix, the
// QR type id, a dash, and a ten-digit tail taken from a snowflake id so
// bulk generation never round-trips the database for uniqueness.
package serial

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

const tailModulus = 10_000_000_000

// Generator produces serial numbers for issued QRs.
type Generator struct {
	node   *snowflake.Node
	prefix string
}

// NewGenerator creates a generator. The prefix must be exactly four
// letters; nodeID distinguishes concurrent server instances.
func NewGenerator(prefix string, nodeID int64) (*Generator, error) {
	if len(prefix) != 4 {
		return nil, fmt.Errorf("serial prefix must be 4 letters, got %q", prefix)
	}
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to init snowflake node: %w", err)
	}
	return &Generator{node: node, prefix: prefix}, nil
}

// Next returns the next serial number for the given QR type.
func (g *Generator) Next(qrTypeID uint) string {
	tail := g.node.Generate().Int64() % tailModulus
	return fmt.Sprintf("%s%d-%010d", g.prefix, qrTypeID, tail)
}
