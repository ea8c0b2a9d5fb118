package vecmath

import "math"

// minSmoothTime keeps the spring coefficient finite.
const minSmoothTime = 1e-4

// SmoothDamp moves current toward target with a critically damped spring that
// reaches the target in roughly smoothTime. velocity carries the spring state
// between calls and is updated in place. The result never overshoots target.
func SmoothDamp(current, target Vec3, velocity *Vec3, smoothTime, dt float64) Vec3 {
	if dt <= 0 {
		return current
	}
	smoothTime = math.Max(minSmoothTime, smoothTime)
	omega := 2 / smoothTime
	decay := springDecay(omega * dt)

	change := current.Sub(target)
	temp := velocity.Add(change.Scale(omega)).Scale(dt)
	*velocity = velocity.Sub(temp.Scale(omega)).Scale(decay)
	out := target.Add(change.Add(temp).Scale(decay))

	if target.Sub(current).Dot(out.Sub(target)) > 0 {
		out = target
		*velocity = Vec3{}
	}
	return out
}

// SmoothDampFloat is the scalar form of SmoothDamp.
func SmoothDampFloat(current, target float64, velocity *float64, smoothTime, dt float64) float64 {
	if dt <= 0 {
		return current
	}
	smoothTime = math.Max(minSmoothTime, smoothTime)
	omega := 2 / smoothTime
	decay := springDecay(omega * dt)

	change := current - target
	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * decay
	out := target + (change+temp)*decay

	if (target-current > 0) == (out > target) {
		out = target
		*velocity = 0
	}
	return out
}

// springDecay approximates exp(-x) well for the small x a frame step produces.
func springDecay(x float64) float64 {
	return 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)
}

// FollowParams configure Follow.
type FollowParams struct {
	// MinFollow is the dead zone around the target in which the follower
	// settles instead of chasing the exact point.
	MinFollow float64
	// MaxFollow is the leash length. Beyond it the follower jumps to just
	// inside the leash.
	MaxFollow float64
	// FollowTime is the smoothing time constant.
	FollowTime float64
	// Epsilon offsets the dead zone and leash so the follower never sits
	// exactly on a boundary.
	Epsilon float64
}

// DefaultFollowEpsilon is used when FollowParams.Epsilon is zero.
const DefaultFollowEpsilon = 0.01

// Follow smooths current toward target on a leash. Inside the leash it damps
// toward a point MinFollow-Epsilon from the target along the approach
// direction. With MinFollow zero that point lies slightly past the target, so
// a moving follower keeps up with the target instead of trailing it.
func Follow(current, target Vec3, velocity *Vec3, params FollowParams, dt float64) Vec3 {
	eps := params.Epsilon
	if eps == 0 {
		eps = DefaultFollowEpsilon
	}
	followTime := params.FollowTime

	dist := target.Sub(current).Len()
	var offset float64
	switch {
	case dist > params.MaxFollow:
		followTime = 0
		offset = params.MaxFollow - eps
	case dist > params.MinFollow:
		offset = params.MinFollow - eps
	default:
		offset = dist
	}

	goal := target.Add(current.Sub(target).Normalize().Scale(offset))
	return SmoothDamp(current, goal, velocity, followTime, dt)
}
