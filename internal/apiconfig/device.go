package apiconfig

import (
	"os"
	"sync"

	"github.com/google/uuid"
)

// hostIdentity 取一次主机名并整进程复用；取不到时退回随机 UUID，
// 保证同一进程内设备标识稳定。
var hostIdentity = sync.OnceValue(func() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return uuid.NewString()
	}
	return name
})

// DeviceID 返回设备唯一标识，约定带 desktop_ 前缀以区分客户端形态。
func DeviceID() string {
	return "desktop_" + hostIdentity()
}

// DeviceName 返回展示用的设备名称。
func DeviceName() string {
	return hostIdentity()
}
