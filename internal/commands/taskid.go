package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrTaskIDRequired is returned when a command expects a task id and none was given.
var ErrTaskIDRequired = errors.New("task id required")

// parseTaskID reads the single positional task id.
// Ids are the positive integers shown by list.
func parseTaskID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, ErrTaskIDRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}
	s := strings.TrimPrefix(strings.TrimSpace(args[0]), "#")
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id: %s", args[0])
	}
	return id, nil
}
