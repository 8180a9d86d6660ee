package common

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

// UUIDint64 returns a new snowflake id. Identities for all persisted
// entities are generated server-side through this function.
func UUIDint64() int64 {
	snowflakeOnce.Do(func() {
		var err error
		snowflakeNode, err = snowflake.NewNode(rand.New(rand.NewSource(time.Now().UnixNano())).Int63n(1023))
		if err != nil {
			panic(err)
		}
	})
	return snowflakeNode.Generate().Int64()
}

// UUID returns a new snowflake id rendered as a string.
func UUID() string {
	return fmt.Sprintf("%d", UUIDint64())
}

// Sha256Hash returns the hex-encoded sha256 of the input.
func Sha256Hash(src string) string {
	h := sha256.New()
	h.Write([]byte(src))
	return hex.EncodeToString(h.Sum(nil))
}

// GetSecretSalt reads the shared secret salt from the environment,
// defaulting to a fixed development value.
func GetSecretSalt() string {
	if v := os.Getenv("MOTOFLEET_SECRET_SALT"); v != "" {
		return v
	}
	return "motofleet-secret"
}

// IsEmptyOrNA reports whether the value carries no useful content.
func IsEmptyOrNA(val string) bool {
	val = strings.TrimSpace(val)
	return val == "" || strings.EqualFold(val, "n/a")
}

// IfEmptyStr returns defval when src is blank.
func IfEmptyStr(src string, defval string) string {
	if strings.TrimSpace(src) == "" {
		return defval
	}
	return src
}
