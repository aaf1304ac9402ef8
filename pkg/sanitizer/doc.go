// Package sanitizer normalizes guest and room input before validation and storage.
//
// All normalization functions are idempotent. They never fail: input that cannot be
// normalized is returned trimmed so that no guest data is silently dropped.
//
// Normalization includes:
//   - Phone numbers: E.164 when the number parses for Vietnam or carries a country code
//   - Emails: trimmed and lowercased
//   - Room names, statuses and image URLs: leading/trailing spaces removed, nothing else
//   - Amenities: each entry trimmed; order, duplicates and empty entries kept
package sanitizer
