package estimation

import "math"

const (
	eulerGamma = 0.57721566490153286060651209008240243
	expintEps  = 1e-16
	expintIter = 1000
)

// Ei returns the exponential integral Ei(x), the principal value of the
// integral of e^t/t from -infinity to x. Ei(0) is -Inf.
func Ei(x float64) float64 {
	switch {
	case x == 0:
		return math.Inf(-1)
	case x < 0:
		return -e1(-x)
	case x < 40:
		return eiSeries(x)
	default:
		return eiAsymptotic(x)
	}
}

// e1 returns E1(y) for y > 0.
func e1(y float64) float64 {
	if y <= 1 {
		sum := 0.0
		term := 1.0
		for k := 1; k < expintIter; k++ {
			term *= -y / float64(k)
			d := term / float64(k)
			sum += d
			if math.Abs(d) < expintEps*math.Abs(sum) {
				break
			}
		}
		return -eulerGamma - math.Log(y) - sum
	}

	// Continued fraction, evaluated with the modified Lentz method.
	const tiny = 1e-300
	b := y + 1
	c := 1 / tiny
	d := 1 / b
	h := d
	for i := 1; i < expintIter; i++ {
		an := -float64(i * i)
		b += 2
		d = 1 / (an*d + b)
		c = b + an/c
		del := c * d
		h *= del
		if math.Abs(del-1) < expintEps {
			break
		}
	}
	return h * math.Exp(-y)
}

func eiSeries(x float64) float64 {
	sum := 0.0
	term := 1.0
	for k := 1; k < expintIter; k++ {
		term *= x / float64(k)
		d := term / float64(k)
		sum += d
		if d < expintEps*sum {
			break
		}
	}
	return eulerGamma + math.Log(x) + sum
}

func eiAsymptotic(x float64) float64 {
	sum := 1.0
	term := 1.0
	for k := 1; k < expintIter; k++ {
		prev := term
		term *= float64(k) / x
		if term >= prev {
			break
		}
		sum += term
		if term < expintEps*sum {
			break
		}
	}
	return math.Exp(x) / x * sum
}
