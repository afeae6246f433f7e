package device

import (
	"context"

	"github.com/arloliu/go-fpsensor/packet"
)

// GenerateImage captures a fingerprint image into the image buffer.
// StatusFingerUndetected means no finger was on the sensor.
func (c *Client) GenerateImage(ctx context.Context) (Result, error) {
	_, res, err := c.exec(ctx, command{
		ins:     packet.InstructionGenerateImage,
		respLen: ackLen,
		timeout: c.cfg.CaptureTimeout(),
	})

	return res, err
}

// UploadImage asks the module to send the image buffer to the host.
func (c *Client) UploadImage(ctx context.Context) (Result, error) {
	return c.simple(ctx, packet.InstructionUploadImage)
}

// DownloadImage prepares the module to receive an image from the host.
func (c *Client) DownloadImage(ctx context.Context) (Result, error) {
	return c.simple(ctx, packet.InstructionDownloadImage)
}

// GenerateCharacter extracts a character file from the image buffer into buf.
func (c *Client) GenerateCharacter(ctx context.Context, buf CharBuffer) (Result, error) {
	if err := buf.validate(); err != nil {
		return Result{}, err
	}

	return c.simple(ctx, packet.InstructionGenerateCharacter, packet.Byte(byte(buf)))
}

// GenerateTemplate merges both character buffers into one template.
func (c *Client) GenerateTemplate(ctx context.Context) (Result, error) {
	return c.simple(ctx, packet.InstructionGenerateTemplate)
}

// UploadTemplate asks the module to send the character file in buf to the host.
func (c *Client) UploadTemplate(ctx context.Context, buf CharBuffer) (Result, error) {
	if err := buf.validate(); err != nil {
		return Result{}, err
	}

	return c.simple(ctx, packet.InstructionUploadTemplate, packet.Byte(byte(buf)))
}

// DownloadTemplate prepares the module to receive a character file into buf.
func (c *Client) DownloadTemplate(ctx context.Context, buf CharBuffer) (Result, error) {
	if err := buf.validate(); err != nil {
		return Result{}, err
	}

	return c.simple(ctx, packet.InstructionDownloadTemplate, packet.Byte(byte(buf)))
}

// CheckMatch compares the two character buffers.
func (c *Client) CheckMatch(ctx context.Context) (*MatchResult, error) {
	resp, res, err := c.exec(ctx, command{ins: packet.InstructionMatch, respLen: matchLen})
	if err != nil {
		return nil, err
	}

	return &MatchResult{Result: res, Score: be16(resp.Payload)}, nil
}
