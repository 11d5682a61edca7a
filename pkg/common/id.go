package common

import (
	"math/rand"
	"os"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cast"
)

var (
	snowflakeNode *snowflake.Node
	nodeOnce      sync.Once
)

// UUIDint64 returns a cluster-safe int64 identifier.
// The snowflake node id is taken from BMS_NODE_ID (0-1023), defaulting to a
// random node so standalone deployments need no configuration.
func UUIDint64() int64 {
	nodeOnce.Do(func() {
		nodeID := cast.ToInt64(os.Getenv("BMS_NODE_ID"))
		if nodeID <= 0 || nodeID > 1023 {
			nodeID = rand.Int63n(1023) + 1
		}
		var err error
		snowflakeNode, err = snowflake.NewNode(nodeID)
		if err != nil {
			panic(err)
		}
	})
	return snowflakeNode.Generate().Int64()
}
