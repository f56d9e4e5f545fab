package audio

// Resampler 音频重采样器接口
// 用于在不同采样率之间转换音频数据
type Resampler interface {
	// Resample 重采样音频数据
	// input: 交错存储的 float32 样本
	// inputRate: 输入采样率 (Hz)
	// outputRate: 输出采样率 (Hz)
	// channels: 声道数 (1=mono, 2=stereo)
	Resample(input []float32, inputRate, outputRate, channels int) ([]float32, error)
}
