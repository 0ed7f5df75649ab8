//go:build !ci

package sound

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultDir 音效文件目录，文件名（去掉扩展名）即音效名
const DefaultDir = "assets/sounds"

const sampleRate = beep.SampleRate(44100)

// SoundManager 音效管理器，找不到设备或文件时静默跳过
type SoundManager struct {
	dir     string
	buffers map[string]*beep.Buffer
	enabled bool
	mu      sync.RWMutex
}

// NewSoundManager 创建音效管理器，dir 为空时使用 DefaultDir
func NewSoundManager(dir string) *SoundManager {
	if dir == "" {
		dir = DefaultDir
	}
	return &SoundManager{
		dir:     dir,
		buffers: make(map[string]*beep.Buffer),
	}
}

// Init 打开扬声器并加载音效
func (sm *SoundManager) Init() error {
	// Smaller buffer for lower latency
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	if err := sm.loadSoundFiles(); err != nil {
		return err
	}

	sm.mu.Lock()
	sm.enabled = true
	sm.mu.Unlock()
	return nil
}

// loadSoundFiles loads every mp3/wav file in the sound directory.
func (sm *SoundManager) loadSoundFiles() error {
	files, err := os.ReadDir(sm.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read sound directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(file.Name()))
		if ext != ".mp3" && ext != ".wav" {
			continue
		}
		// 单个文件失败不影响其他音效
		buffer, err := decodeFile(filepath.Join(sm.dir, file.Name()), ext)
		if err != nil {
			continue
		}

		sm.mu.Lock()
		sm.buffers[strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))] = buffer
		sm.mu.Unlock()
	}
	return nil
}

// decodeFile decodes one sound file into a stereo buffer at sampleRate.
func decodeFile(path, ext string) (*beep.Buffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = streamer.Close() }()

	var resampled beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		resampled = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}

	buffer := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 4})
	buffer.Append(resampled)
	return buffer, nil
}

// Has reports whether a sound was loaded.
func (sm *SoundManager) Has(name string) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	_, ok := sm.buffers[name]
	return ok
}

// Play 播放音效，不等待播放结束
func (sm *SoundManager) Play(name string) {
	if name == "" {
		return
	}

	sm.mu.RLock()
	buffer, ok := sm.buffers[name]
	enabled := sm.enabled
	sm.mu.RUnlock()
	if !enabled || !ok {
		return
	}

	speaker.Play(buffer.Streamer(0, buffer.Len()))
}

// Close 停止播放
func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.enabled {
		speaker.Clear()
		sm.enabled = false
	}
}
