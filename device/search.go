package device

import (
	"context"
	"fmt"

	"github.com/arloliu/go-fpsensor/packet"
)

// Search looks up the character file in buf within r.
func (c *Client) Search(ctx context.Context, buf CharBuffer, r Range) (*SearchResult, error) {
	if err := buf.validate(); err != nil {
		return nil, err
	}
	if r.Count == 0 {
		return nil, fmt.Errorf("%w: search count must be positive", ErrParameterOutOfRange)
	}

	resp, res, err := c.exec(ctx, command{
		ins:     packet.InstructionSearch,
		respLen: searchLen,
		parts:   [][]byte{packet.Byte(byte(buf)), packet.Uint16(r.Start), packet.Uint16(r.Count)},
	})
	if err != nil {
		return nil, err
	}

	return newSearchResult(res, resp.Payload), nil
}

// SearchLibrary searches the whole library, learning its capacity if needed.
func (c *Client) SearchLibrary(ctx context.Context, buf CharBuffer) (*SearchResult, error) {
	capacity, err := c.capacity(ctx)
	if err != nil {
		return nil, err
	}

	return c.Search(ctx, buf, Range{Start: 0, Count: capacity})
}

// Identify captures a finger and searches the whole library in one command.
func (c *Client) Identify(ctx context.Context) (*SearchResult, error) {
	resp, res, err := c.exec(ctx, command{
		ins:     packet.InstructionIdentify,
		respLen: searchLen,
		timeout: c.cfg.CaptureTimeout(),
	})
	if err != nil {
		return nil, err
	}

	return newSearchResult(res, resp.Payload), nil
}

// AutoSearch waits up to captureTime for a finger, then searches r.
func (c *Client) AutoSearch(ctx context.Context, captureTime byte, r Range) (*SearchResult, error) {
	if r.Count == 0 {
		return nil, fmt.Errorf("%w: search count must be positive", ErrParameterOutOfRange)
	}

	resp, res, err := c.exec(ctx, command{
		ins:     packet.InstructionAutoSearch,
		respLen: searchLen,
		parts:   [][]byte{packet.Byte(captureTime), packet.Uint16(r.Start), packet.Uint16(r.Count)},
		timeout: c.cfg.CaptureTimeout(),
	})
	if err != nil {
		return nil, err
	}

	return newSearchResult(res, resp.Payload), nil
}
