//go:build ci

package sound

// DefaultDir 音效文件目录
const DefaultDir = "assets/sounds"

// SoundManager CI 环境下的空实现
type SoundManager struct{}

func NewSoundManager(string) *SoundManager {
	return &SoundManager{}
}

func (sm *SoundManager) Init() error {
	return nil
}

func (sm *SoundManager) Has(string) bool {
	return false
}

func (sm *SoundManager) Play(string) {
	// No-op
}

func (sm *SoundManager) Close() {
	// No-op
}
