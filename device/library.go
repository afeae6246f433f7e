package device

import (
	"context"
	"fmt"

	"github.com/arloliu/go-fpsensor/packet"
)

// GetTemplateCount returns the number of stored templates.
func (c *Client) GetTemplateCount(ctx context.Context) (*TemplateCount, error) {
	resp, res, err := c.exec(ctx, command{ins: packet.InstructionTemplateCount, respLen: templateCountLen})
	if err != nil {
		return nil, err
	}

	return &TemplateCount{Result: res, Count: be16(resp.Payload)}, nil
}

// GetTemplateIndex reads the occupancy bitmap of one index page.
func (c *Client) GetTemplateIndex(ctx context.Context, page int) (*TemplateIndex, error) {
	if page < 0 || page >= IndexPages {
		return nil, fmt.Errorf("%w: index page %d not in [0, %d]", ErrParameterOutOfRange, page, IndexPages-1)
	}

	resp, res, err := c.exec(ctx, command{
		ins:     packet.InstructionReadIndexTable,
		respLen: indexTableLen,
		parts:   [][]byte{packet.Byte(byte(page))},
	})
	if err != nil {
		return nil, err
	}

	return &TemplateIndex{Result: res, Page: page, Slots: decodeIndex(resp.Payload)}, nil
}

// FirstFreePosition scans the index pages covering the library and returns
// the lowest unused position. It fails with ErrLibraryFull when every
// position is taken.
func (c *Client) FirstFreePosition(ctx context.Context) (int, error) {
	capacity, err := c.capacity(ctx)
	if err != nil {
		return 0, err
	}

	for page := 0; page < IndexPages && page*SlotsPerPage < int(capacity); page++ {
		index, err := c.GetTemplateIndex(ctx, page)
		if err != nil {
			return 0, err
		}
		if err := index.Err(); err != nil {
			return 0, fmt.Errorf("device: read index page %d: %w", page, err)
		}

		if pos, ok := index.FirstFree(); ok && pos < int(capacity) {
			return pos, nil
		}
	}

	return 0, ErrLibraryFull
}

// StoreTemplate saves the template in buf at position. With AutoPosition the
// first free position is used. A position outside the library fails with
// ErrInvalidPosition before the store command is sent.
func (c *Client) StoreTemplate(ctx context.Context, buf CharBuffer, position int) (*StoreResult, error) {
	if err := buf.validate(); err != nil {
		return nil, err
	}

	if position == AutoPosition {
		pos, err := c.FirstFreePosition(ctx)
		if err != nil {
			return nil, err
		}
		position = pos
	}

	capacity, err := c.capacity(ctx)
	if err != nil {
		return nil, err
	}
	if position < 0 || position >= int(capacity) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidPosition, position, capacity)
	}

	pageID := uint16(position)
	res, err := c.simple(ctx, packet.InstructionStoreTemplate, packet.Byte(byte(buf)), packet.Uint16(pageID))
	if err != nil {
		return nil, err
	}

	return &StoreResult{Result: res, PageID: pageID}, nil
}

// ReadTemplate loads the template at pageID into buf.
func (c *Client) ReadTemplate(ctx context.Context, buf CharBuffer, pageID uint16) (Result, error) {
	if err := buf.validate(); err != nil {
		return Result{}, err
	}

	return c.simple(ctx, packet.InstructionReadTemplate, packet.Byte(byte(buf)), packet.Uint16(pageID))
}

// DeleteTemplate removes count templates starting at pageID.
func (c *Client) DeleteTemplate(ctx context.Context, pageID, count uint16) (Result, error) {
	if count == 0 {
		return Result{}, fmt.Errorf("%w: delete count must be positive", ErrParameterOutOfRange)
	}

	return c.simple(ctx, packet.InstructionDeleteTemplate, packet.Uint16(pageID), packet.Uint16(count))
}

// EmptyLibrary removes every stored template.
func (c *Client) EmptyLibrary(ctx context.Context) (Result, error) {
	return c.simple(ctx, packet.InstructionEmptyLibrary)
}
