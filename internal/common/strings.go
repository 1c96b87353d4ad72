package common

// UnknownStr is the fallback text for enum values without a known name.
const UnknownStr = "unknown"

// NullStr is the text used for nil values in messages.
const NullStr = "null"
