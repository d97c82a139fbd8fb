package command

// Kind identifies which of the five invocation shapes a Pass describes.
type Kind int

const (
	// Single is a one-pass full-file encode.
	Single Kind = iota
	// First is pass 1 of a two-pass encode: analysis only, no output.
	First
	// Second is pass 2 of a two-pass encode, reusing pass 1's log.
	Second
	// CalibrationSample encodes a short window for VMAF measurement.
	CalibrationSample
	// VmafCompare runs the libvmaf filter comparing a distorted sample
	// against its reference and writes a JSON log.
	VmafCompare
)

// Window describes a seek/limit pair in seconds for a calibration sample.
type Window struct {
	StartSeconds    float64
	DurationSeconds float64
}

// Pass carries the parameters that distinguish one invocation shape from
// another. Only the fields relevant to Kind are populated. Build checks
// required fields only for VmafCompare (its paths); for the other Kinds it
// does not validate the fields.
type Pass struct {
	Kind Kind

	// PassLogPath is the ffmpeg two-pass log file basename (without the
	// "-0.log" suffix ffmpeg appends), shared between First and Second.
	PassLogPath string

	// Window is set for CalibrationSample.
	Window Window

	// VMAF fields are set for VmafCompare.
	VMAFReferencePath string
	VMAFDistortedPath string
	VMAFLogPath       string
	VMAFSubsample     int
}

// NewSingle builds a Pass for a one-pass full-file encode.
func NewSingle() Pass { return Pass{Kind: Single} }

// NewFirst builds a Pass for pass 1 of a two-pass encode.
func NewFirst(passLogPath string) Pass { return Pass{Kind: First, PassLogPath: passLogPath} }

// NewSecond builds a Pass for pass 2 of a two-pass encode.
func NewSecond(passLogPath string) Pass { return Pass{Kind: Second, PassLogPath: passLogPath} }

// NewCalibrationSample builds a Pass encoding a window starting at
// startSeconds for durationSeconds.
func NewCalibrationSample(startSeconds, durationSeconds float64) Pass {
	return Pass{Kind: CalibrationSample, Window: Window{StartSeconds: startSeconds, DurationSeconds: durationSeconds}}
}

// NewVmafCompare builds a Pass invoking libvmaf to compare distortedPath
// against referencePath, writing the pooled score to logPath. subsample is
// the libvmaf n_subsample stride (1 = every frame).
func NewVmafCompare(referencePath, distortedPath, logPath string, subsample int) Pass {
	return Pass{
		Kind:              VmafCompare,
		VMAFReferencePath: referencePath,
		VMAFDistortedPath: distortedPath,
		VMAFLogPath:       logPath,
		VMAFSubsample:     subsample,
	}
}
