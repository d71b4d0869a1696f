package source

import (
	"math"
	"time"

	"github.com/zaynotley/sonora"
)

const agcRMSWindowSize = 1024

// AutomaticGainControl adapts its gain to push the signal towards
// targetLevel, tracking both a peak envelope and a sliding RMS window and
// applying whichever of the two suggests the more conservative gain.
type AutomaticGainControl struct {
	inner sonora.Source

	targetLevel     float32
	absoluteMaxGain float32
	currentGain     float32
	attackCoeff     float32

	peakLevel float32
	rmsLevel  float32
	rmsWindow [agcRMSWindowSize]float32
	rmsIndex  int
}

// NewAutomaticGainControl wraps inner with AGC targeting targetLevel, with
// the given attack time constant (seconds) and absoluteMaxGain ceiling.
func NewAutomaticGainControl(inner sonora.Source, targetLevel, attackTime, absoluteMaxGain float32) *AutomaticGainControl {
	rate := float32(inner.SampleRate())
	return &AutomaticGainControl{
		inner:           inner,
		targetLevel:     targetLevel,
		absoluteMaxGain: absoluteMaxGain,
		currentGain:     1.0,
		attackCoeff:     float32(math.Exp(float64(-1.0 / (attackTime * rate)))),
	}
}

// SetTargetLevel changes the level AGC converges towards.
func (a *AutomaticGainControl) SetTargetLevel(level float32) { a.targetLevel = level }

// SetAttackTime recomputes the attack coefficient for a new time constant.
func (a *AutomaticGainControl) SetAttackTime(attackTime float32) {
	rate := float32(a.inner.SampleRate())
	a.attackCoeff = float32(math.Exp(float64(-1.0 / (attackTime * rate))))
}

func (a *AutomaticGainControl) Next() (sonora.Sample, bool) {
	value, ok := a.inner.Next()
	if !ok {
		return 0, false
	}

	sampleValue := value
	if sampleValue < 0 {
		sampleValue = -sampleValue
	}

	attackCoeff := a.attackCoeff
	if sampleValue > a.peakLevel {
		if attackCoeff > 0.1 {
			attackCoeff = 0.1
		}
	}
	a.peakLevel = attackCoeff*a.peakLevel + (1.0-attackCoeff)*sampleValue

	a.rmsLevel -= a.rmsWindow[a.rmsIndex] / float32(agcRMSWindowSize)
	a.rmsWindow[a.rmsIndex] = sampleValue * sampleValue
	a.rmsLevel += a.rmsWindow[a.rmsIndex] / float32(agcRMSWindowSize)
	a.rmsIndex = (a.rmsIndex + 1) % agcRMSWindowSize

	rms := float32(math.Sqrt(float64(a.rmsLevel)))

	peakGain := float32(1.0)
	if a.peakLevel > 0 {
		peakGain = a.targetLevel / a.peakLevel
	}
	rmsGain := float32(1.0)
	if rms > 0 {
		rmsGain = a.targetLevel / rms
	}

	desiredGain := peakGain
	if rmsGain < desiredGain {
		desiredGain = rmsGain
	}

	const adjustmentSpeed = 0.05
	a.currentGain = a.currentGain*(1.0-adjustmentSpeed) + desiredGain*adjustmentSpeed

	if a.currentGain < 0.1 {
		a.currentGain = 0.1
	}
	if a.currentGain > a.absoluteMaxGain {
		a.currentGain = a.absoluteMaxGain
	}

	return value * a.currentGain, true
}

func (a *AutomaticGainControl) Channels() sonora.ChannelCount        { return a.inner.Channels() }
func (a *AutomaticGainControl) SampleRate() sonora.SampleRate        { return a.inner.SampleRate() }
func (a *AutomaticGainControl) CurrentSpanLen() int                  { return a.inner.CurrentSpanLen() }
func (a *AutomaticGainControl) TotalDuration() (time.Duration, bool) { return a.inner.TotalDuration() }
func (a *AutomaticGainControl) TrySeek(pos time.Duration) error      { return a.inner.TrySeek(pos) }
