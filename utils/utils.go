package utils

import (
	"fmt"
	"strings"
)

// UserAgent is sent by every plain HTTP fetch.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func AddToLogMessage(logMessagesBuilder *strings.Builder, strToAdd string) {

	if logMessagesBuilder.Len() == logMessagesBuilder.Cap() {

		logMessagesBuilder.Grow(len(strToAdd))
	}

	logMessagesBuilder.WriteString(strToAdd)
	logMessagesBuilder.WriteString(";")
	logMessagesBuilder.WriteString("\n")
}

// AddToLogMessagef formats and appends a log line.
func AddToLogMessagef(logMessagesBuilder *strings.Builder, format string, args ...interface{}) {
	AddToLogMessage(logMessagesBuilder, fmt.Sprintf(format, args...))
}
