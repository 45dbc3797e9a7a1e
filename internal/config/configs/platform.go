package configs

import "github.com/shopspring/decimal"

// Platform holds marketplace business settings. The fee rate is the
// fraction of every payment kept by the platform; the remainder goes
// to the influencer.
type Platform struct {
	// FeeRate is a decimal fraction such as "0.10" for ten percent.
	FeeRate string `env:"FEE_RATE" envDefault:"0.10"`
	// SeedDemo loads demo accounts and campaigns on startup. Only
	// honoured by main.
	SeedDemo bool `env:"SEED_DEMO" envDefault:"false"`
}

// Fee parses the configured rate. An unparsable value falls back to
// ten percent rather than failing startup.
func (c Platform) Fee() decimal.Decimal {
	rate, err := decimal.NewFromString(c.FeeRate)
	if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromFloat(0.10)
	}
	return rate
}
