package hardware

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// SysfsRoot is where the kernel exposes PWM chips.
const SysfsRoot = "/sys/class/pwm"

// SysfsPWM drives one channel of a Linux PWM chip through sysfs.
type SysfsPWM struct {
	chipDir string
	dir     string
	channel int
	period  uint64 // nanoseconds
}

// OpenSysfsPWM exports the channel if needed, programs the period for the
// requested frequency and enables the output at zero duty.
func OpenSysfsPWM(root string, chip, channel, frequency int) (p *SysfsPWM, err error) {
	if frequency <= 0 {
		return nil, errors.Errorf("invalid pwm frequency %d", frequency)
	}

	p = &SysfsPWM{
		chipDir: filepath.Join(root, "pwmchip"+strconv.Itoa(chip)),
		channel: channel,
		period:  uint64(1e9 / frequency),
	}
	p.dir = filepath.Join(p.chipDir, "pwm"+strconv.Itoa(channel))

	if _, err = os.Stat(p.dir); os.IsNotExist(err) {
		if err = p.write(filepath.Join(p.chipDir, "export"), strconv.Itoa(channel)); err != nil {
			return nil, errors.Wrapf(err, "export pwm channel %d", channel)
		}
		if _, err = os.Stat(p.dir); err != nil {
			return nil, errors.Wrapf(err, "pwm channel %d not exported", channel)
		}
	}

	// duty must never exceed the period, so clear it before changing the period
	if err = p.attr("duty_cycle", 0); err != nil {
		return nil, err
	}
	if err = p.attr("period", p.period); err != nil {
		return nil, err
	}
	if err = p.attr("enable", 1); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *SysfsPWM) SetDutyCycleFraction(num, denom uint16) error {
	if err := checkFraction(num, denom); err != nil {
		return err
	}
	return p.attr("duty_cycle", p.period*uint64(num)/uint64(denom))
}

// Close disables and unexports the channel.
func (p *SysfsPWM) Close() error {
	if err := p.attr("enable", 0); err != nil {
		return err
	}
	return p.write(filepath.Join(p.chipDir, "unexport"), strconv.Itoa(p.channel))
}

func (p *SysfsPWM) attr(name string, value uint64) error {
	err := p.write(filepath.Join(p.dir, name), strconv.FormatUint(value, 10))
	return errors.Wrapf(err, "write %s", name)
}

func (p *SysfsPWM) write(path, value string) error {
	return ioutil.WriteFile(path, []byte(value), 0644)
}
