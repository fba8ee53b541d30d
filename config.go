package tudat

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DominikStiller/tudat/electromagnetism"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = _tudatconfig{}
)

// ErrUnknownReflectionLaw is returned when a panel references a reflection law which is not defined.
var ErrUnknownReflectionLaw = errors.New("unknown reflection law")

// _tudatconfig is a "hidden" struct, just use `tudatConfig`
type _tudatconfig struct {
	outputDir string
	logLevel  string
}

// tudatConfig returns the tudat configuration from $TUDAT_CONFIG/conf.toml, or the defaults if that variable is
// not set.
func tudatConfig() _tudatconfig {
	if cfgLoaded {
		return config
	}
	config = _tudatconfig{outputDir: ".", logLevel: "info"}
	confPath := os.Getenv("TUDAT_CONFIG")
	if confPath == "" {
		cfgLoaded = true
		return config
	}
	v := viper.New()
	v.SetConfigName("conf")
	v.AddConfigPath(confPath)
	if err := v.ReadInConfig(); err != nil {
		panic(fmt.Errorf("%s/conf.toml not found", confPath))
	}
	if dir := v.GetString("general.output_path"); dir != "" {
		config.outputDir = dir
	}
	if lvl := v.GetString("log.level"); lvl != "" {
		config.logLevel = strings.ToLower(lvl)
	}
	cfgLoaded = true
	return config
}

// NewLogger returns a logfmt logger on w which drops the entries below the configured log level.
func NewLogger(w io.Writer) kitlog.Logger {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
	return level.NewFilter(logger, levelOption(tudatConfig().logLevel))
}

func levelOption(lvl string) level.Option {
	switch lvl {
	case "debug":
		return level.AllowDebug()
	case "warn", "warning":
		return level.AllowWarn()
	case "error", "critical":
		return level.AllowError()
	case "none":
		return level.AllowNone()
	default:
		return level.AllowInfo()
	}
}

type lawConf struct {
	Absorptivity float64 `mapstructure:"absorptivity"`
	Specular     float64 `mapstructure:"specular"`
	Diffuse      float64 `mapstructure:"diffuse"`
	Reradiation  bool    `mapstructure:"reradiation"`
}

type panelConf struct {
	Area     float64   `mapstructure:"area"`
	Normal   []float64 `mapstructure:"normal"`
	Law      string    `mapstructure:"law"`
	Tracking string    `mapstructure:"tracking"`
}

// Vehicle is a target body as defined in a vehicle TOML file.
type Vehicle struct {
	Name     string
	Mass     float64 // kg
	Attitude Attitude
	kind     string // cannonball or paneled
	area, cr float64
	laws     map[string]*electromagnetism.SpecularDiffuseMixReflectionLaw
	panels   []panelConf
}

// LoadVehicle reads the vehicle file at the provided path. Reflection laws are defined once by name and shared by
// all the panels which reference them; laws with identical coefficients are deduplicated.
func LoadVehicle(path string) (*Vehicle, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%s: %s", path, err)
	}
	veh := &Vehicle{
		Name: v.GetString("vehicle.name"),
		Mass: v.GetFloat64("vehicle.mass"),
		kind: strings.ToLower(v.GetString("target.kind")),
	}
	if !(veh.Mass > 0) {
		return nil, fmt.Errorf("%s: vehicle mass must be strictly positive (got %f)", path, veh.Mass)
	}
	att, err := attitudeFromConfig(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %s", path, err)
	}
	veh.Attitude = att

	switch veh.kind {
	case "cannonball":
		veh.area = v.GetFloat64("target.area")
		veh.cr = v.GetFloat64("target.coefficient")
		// Fail early on invalid parameters.
		if _, err := electromagnetism.NewCannonballTargetModel(veh.area, veh.cr); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case "paneled":
		var laws map[string]lawConf
		if err := v.UnmarshalKey("laws", &laws); err != nil {
			return nil, fmt.Errorf("%s: laws: %s", path, err)
		}
		veh.laws = make(map[string]*electromagnetism.SpecularDiffuseMixReflectionLaw, len(laws))
		unique := make(map[lawConf]*electromagnetism.SpecularDiffuseMixReflectionLaw)
		for name, lc := range laws {
			if law, found := unique[lc]; found {
				veh.laws[strings.ToLower(name)] = law
				continue
			}
			law, err := electromagnetism.NewSpecularDiffuseMixReflectionLaw(lc.Absorptivity, lc.Specular, lc.Diffuse, lc.Reradiation)
			if err != nil {
				return nil, fmt.Errorf("%s: law `%s`: %w", path, name, err)
			}
			unique[lc] = law
			veh.laws[strings.ToLower(name)] = law
		}
		if err := v.UnmarshalKey("panels", &veh.panels); err != nil {
			return nil, fmt.Errorf("%s: panels: %s", path, err)
		}
		if len(veh.panels) == 0 {
			return nil, fmt.Errorf("%s: %w", path, electromagnetism.ErrNoPanels)
		}
		for i, pc := range veh.panels {
			if !(pc.Area > 0) {
				return nil, fmt.Errorf("%s: panel #%d: %w", path, i, electromagnetism.ErrPanelArea)
			}
			if _, found := veh.laws[strings.ToLower(pc.Law)]; !found {
				return nil, fmt.Errorf("%s: panel #%d: `%s`: %w", path, i, pc.Law, ErrUnknownReflectionLaw)
			}
			if pc.Tracking == "" && len(pc.Normal) != 3 {
				return nil, fmt.Errorf("%s: panel #%d: normal must have three components", path, i)
			}
			if pc.Tracking != "" && strings.ToLower(pc.Tracking) != "sun" {
				return nil, fmt.Errorf("%s: panel #%d: unsupported tracking `%s`", path, i, pc.Tracking)
			}
		}
	default:
		return nil, fmt.Errorf("%s: unknown target kind `%s`", path, veh.kind)
	}
	return veh, nil
}

func attitudeFromConfig(v *viper.Viper) (Attitude, error) {
	euler := []float64{0, 0, 0}
	if v.IsSet("attitude.euler") {
		if err := v.UnmarshalKey("attitude.euler", &euler); err != nil {
			return nil, err
		}
		if len(euler) != 3 {
			return nil, errors.New("attitude.euler must have three angles")
		}
	}
	θ1, θ2, θ3 := Deg2rad(euler[0]), Deg2rad(euler[1]), Deg2rad(euler[2])
	switch kind := strings.ToLower(v.GetString("attitude.kind")); kind {
	case "", "fixed":
		return NewFixedAttitude(θ1, θ2, θ3), nil
	case "spinning":
		rate := v.GetFloat64("attitude.rate") * deg2rad
		axis := 3
		if v.IsSet("attitude.axis") {
			axis = v.GetInt("attitude.axis")
		}
		return NewSpinningAttitude(θ1, θ2, θ3, axis, rate, v.GetFloat64("attitude.epoch"))
	default:
		return nil, fmt.Errorf("unknown attitude kind `%s`", kind)
	}
}

// NumberOfLaws returns the number of distinct reflection law instances of this vehicle.
func (veh *Vehicle) NumberOfLaws() int {
	distinct := make(map[*electromagnetism.SpecularDiffuseMixReflectionLaw]struct{})
	for _, l := range veh.laws {
		distinct[l] = struct{}{}
	}
	return len(distinct)
}

// MassFunc returns the (constant) mass of the vehicle as a function of time.
func (veh *Vehicle) MassFunc() electromagnetism.ScalarFunc {
	return func(float64) float64 {
		return veh.Mass
	}
}

// NewTargetModel returns a new target model of this vehicle. Each propagation arc must use its own target model.
// The positions are only used by Sun tracking panels.
func (veh *Vehicle) NewTargetModel(sunPosition, bodyPosition electromagnetism.PositionFunc) (electromagnetism.TargetModel, error) {
	if veh.kind == "cannonball" {
		cb, err := electromagnetism.NewCannonballTargetModel(veh.area, veh.cr)
		if err != nil {
			return nil, err
		}
		return cb, nil
	}
	panels := make([]*electromagnetism.Panel, len(veh.panels))
	for i, pc := range veh.panels {
		var normal electromagnetism.SurfaceNormalFunc
		if pc.Tracking != "" {
			normal = SunTrackingNormal(sunPosition, bodyPosition)
		} else {
			normal = BodyFixedNormal(veh.Attitude, vecFromSlice(pc.Normal))
		}
		p, err := electromagnetism.NewPanel(pc.Area, normal, veh.laws[strings.ToLower(pc.Law)])
		if err != nil {
			return nil, fmt.Errorf("panel #%d: %w", i, err)
		}
		panels[i] = p
	}
	tm, err := electromagnetism.NewPaneledTargetModel(panels...)
	if err != nil {
		return nil, err
	}
	return tm, nil
}

// String implements the Stringer interface.
func (veh *Vehicle) String() string {
	if veh.kind == "cannonball" {
		return fmt.Sprintf("%s (%.1f kg, cannonball A=%g m^2 Cr=%g)", veh.Name, veh.Mass, veh.area, veh.cr)
	}
	return fmt.Sprintf("%s (%.1f kg, %d panels, %d laws)", veh.Name, veh.Mass, len(veh.panels), veh.NumberOfLaws())
}
