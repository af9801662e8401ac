// Package snapshot compares values against JSON files kept in testdata
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

var (
	mu        sync.Mutex
	funcCount = make(map[string]int)
)

// Validate compares obj with the snapshot of the calling test
// A missing snapshot is written and the comparison passes.
func Validate(t *testing.T, obj interface{}, msgAndArgs ...interface{}) bool {
	t.Helper()
	return ValidateDepth(t, obj, 1, msgAndArgs...)
}

// ValidateDepth is Validate for helpers, depth is how many frames sit between the test and the call
func ValidateDepth(t *testing.T, obj interface{}, depth int, msgAndArgs ...interface{}) bool {
	t.Helper()

	pc, _, _, _ := runtime.Caller(1 + depth)
	funcName := filepath.Base(runtime.FuncForPC(pc).Name())

	mu.Lock()
	call := funcCount[funcName]
	funcCount[funcName] = call + 1
	mu.Unlock()

	filename := filepath.Join("testdata", fmt.Sprintf("%s-%d.json", funcName, call))

	objJSON, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		t.Fatalf("could not encode snapshot: %v", err)
	}

	expects, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		if err := create(filename, objJSON); err != nil {
			t.Fatalf("could not write snapshot: %v", err)
		}

		return true
	} else if err != nil {
		t.Fatalf("could not read snapshot: %v", err)
	}

	if !assert.Equal(t, strings.Trim(string(expects), "\n"), strings.Trim(string(objJSON), "\n"), msgAndArgs...) {
		t.Logf("snapshot %s", filename)
		return false
	}

	return true
}

func create(filename string, objJSON []byte) error {
	logrus.WithField("filename", filename).Info("writing snapshot file")
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}

	return os.WriteFile(filename, append(objJSON, '\n'), 0644)
}
