package pricing

import "github.com/shopspring/decimal"

// VolumetricDivisor converts cubic centimetres to volumetric kilograms.
var VolumetricDivisor = decimal.NewFromInt(5000)

// VolumetricWeight returns length*width*height/5000 for dimensions in cm.
func VolumetricWeight(length, width, height decimal.Decimal) (decimal.Decimal, error) {
	if !length.IsPositive() || !width.IsPositive() || !height.IsPositive() {
		return decimal.Zero, invalidInput("Length, width and height must all be greater than zero.")
	}
	return length.Mul(width).Mul(height).Div(VolumetricDivisor), nil
}
