package audio

import (
	"fmt"
	"math"
)

// LinearResampler 线性插值重采样器
// 试听时设备采样率与文件不一致才会用到，音质要求不高
type LinearResampler struct{}

// NewLinearResampler 创建线性插值重采样器
func NewLinearResampler() *LinearResampler {
	return &LinearResampler{}
}

// Resample 使用线性插值进行重采样
// 算法：
//
//	ratio = inputRate / outputRate
//	position = outputIndex * ratio
//	i = floor(position)
//	frac = position - i
//	output[outputIndex] = input[i] * (1 - frac) + input[i+1] * frac
func (r *LinearResampler) Resample(input []float32, inputRate, outputRate, channels int) ([]float32, error) {
	if inputRate <= 0 || outputRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: input=%d, output=%d", inputRate, outputRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channels: %d", channels)
	}
	if len(input) == 0 {
		return []float32{}, nil
	}

	if inputRate == outputRate {
		result := make([]float32, len(input))
		copy(result, input)
		return result, nil
	}

	inputFrames := len(input) / channels
	if inputFrames == 0 {
		return []float32{}, nil
	}

	ratio := float64(inputRate) / float64(outputRate)
	outputFrames := int(math.Ceil(float64(inputFrames) / ratio))
	output := make([]float32, outputFrames*channels)

	for outFrame := 0; outFrame < outputFrames; outFrame++ {
		position := float64(outFrame) * ratio
		inFrame := int(position)
		frac := position - float64(inFrame)

		// 末尾没有下一帧时保持最后一帧
		if inFrame >= inputFrames-1 {
			inFrame = inputFrames - 1
			frac = 0
		}

		for ch := 0; ch < channels; ch++ {
			inIdx1 := inFrame*channels + ch
			inIdx2 := inIdx1
			if inFrame+1 < inputFrames {
				inIdx2 = (inFrame+1)*channels + ch
			}

			sample1 := float64(input[inIdx1])
			sample2 := float64(input[inIdx2])
			output[outFrame*channels+ch] = float32(sample1*(1.0-frac) + sample2*frac)
		}
	}

	return output, nil
}
