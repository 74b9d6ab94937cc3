package common

// UnknownStr is the String() result for enum values outside their declared range.
const UnknownStr = "unknown"
