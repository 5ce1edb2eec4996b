package internal

import (
	"os"
	"strconv"
	"time"
)

func GetEnv(name string) (string, bool) {
	return os.LookupEnv(name)
}

// GetEnvString returns the value of the environment variable with the given name
// or defaultValue if the environment variable is not set.
func GetEnvString(name string, defaultValue string) string {
	val, ok := GetEnv(name)
	if !ok {
		return defaultValue
	}
	return val
}

// getEnvConvert returns defaultValue when the variable is unset or fails to parse.
func getEnvConvert[T any](name string, defaultValue T, parse func(string) (T, error)) T {
	val, ok := GetEnv(name)
	if !ok {
		return defaultValue
	}

	result, err := parse(val)
	if err != nil {
		return defaultValue
	}
	return result
}

func parseInt(val string) (int, error) {
	return strconv.Atoi(val)
}

func parseUint32(val string) (uint32, error) {
	i, err := strconv.ParseUint(val, 10, 32)
	return uint32(i), err
}

func parseDurationSeconds(val string) (time.Duration, error) {
	i, err := strconv.Atoi(val)
	return time.Duration(i) * time.Second, err
}
