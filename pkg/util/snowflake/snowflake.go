// Package snowflake 生成消息 id，同一节点内单调递增
package snowflake

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

const defaultMachineID = 1

var (
	mu   sync.Mutex
	node *snowflake.Node
)

// Init 设置节点 id，范围 0-1023，多实例部署时每个实例必须不同
// 重复调用以最后一次为准
func Init(machineID int64) error {
	n, err := snowflake.NewNode(machineID)
	if err != nil {
		return fmt.Errorf("snowflake node %d: %w", machineID, err)
	}
	mu.Lock()
	node = n
	mu.Unlock()
	zap.L().Info("snowflake node initialized", zap.Int64("machine_id", machineID))
	return nil
}

// GenerateID 未调用 Init 时使用默认节点
func GenerateID() int64 {
	mu.Lock()
	defer mu.Unlock()
	if node == nil {
		node, _ = snowflake.NewNode(defaultMachineID)
	}
	return node.Generate().Int64()
}
