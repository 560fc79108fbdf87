package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// VoucherCursor is the position of the last voucher on a page. Vouchers are
// listed newest first by (voucher_date, created_at, voucher_id).
type VoucherCursor struct {
	VoucherDate time.Time
	CreatedAt   time.Time
	VoucherID   string
}

// EncodeToken creates a base64 encoded token from a voucher date, creation time and ID.
func EncodeToken(c VoucherCursor) string {
	return EncodeMultiFieldToken(c.VoucherDate.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.VoucherID)
}

// DecodeToken parses the base64 encoded token back into a cursor.
func DecodeToken(token string) (VoucherCursor, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return VoucherCursor{}, err
	}
	if len(parts) != 3 || parts[2] == "" {
		return VoucherCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	voucherDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return VoucherCursor{}, fmt.Errorf("invalid pagination token format (voucher date parse): %w", err)
	}

	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return VoucherCursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return VoucherCursor{VoucherDate: voucherDate, CreatedAt: createdAt, VoucherID: parts[2]}, nil
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}
