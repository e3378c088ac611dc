package extension

// Definition is the full declarative description of one installable
// extension, loaded from its extension.yaml document.
type Definition struct {
	Metadata     Metadata       `yaml:"metadata" json:"metadata"`
	Requirements *Requirements  `yaml:"requirements,omitempty" json:"requirements,omitempty"`
	Install      InstallSpec    `yaml:"install" json:"install"`
	Configure    *ConfigureSpec `yaml:"configure,omitempty" json:"configure,omitempty"`
	Validate     ValidateSpec   `yaml:"validate" json:"validate"`
	Upgrade      *UpgradeSpec   `yaml:"upgrade,omitempty" json:"upgrade,omitempty"`
	Remove       *RemoveSpec    `yaml:"remove,omitempty" json:"remove,omitempty"`
	BOM          *BOMSpec       `yaml:"bom,omitempty" json:"bom,omitempty"`
}

// Metadata identifies an extension and declares its dependencies.
// Dependency order is preserved: the resolver visits dependencies in the
// order they are declared here.
type Metadata struct {
	Name         string   `yaml:"name" json:"name"`
	Version      string   `yaml:"version" json:"version"`
	Description  string   `yaml:"description" json:"description"`
	Category     string   `yaml:"category" json:"category"`
	Dependencies []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

// Requirements declares what an extension needs from the host.
type Requirements struct {
	// Domains lists network domains the extension downloads from,
	// checked by domain validation.
	Domains []string `yaml:"domains,omitempty" json:"domains,omitempty"`

	// DiskSpaceMB is the minimum free disk space in megabytes.
	DiskSpaceMB int `yaml:"diskSpace,omitempty" json:"diskSpace,omitempty"`

	// InstallTimeout overrides the executor's default install timeout (seconds).
	InstallTimeout int `yaml:"installTimeout,omitempty" json:"installTimeout,omitempty"`

	// ValidateTimeout bounds each validation command run (seconds).
	ValidateTimeout int `yaml:"validationTimeout,omitempty" json:"validationTimeout,omitempty"`
}

// Install method identifiers.
const (
	MethodMise   = "mise"
	MethodApt    = "apt"
	MethodScript = "script"
)

// ValidMethods contains all valid install method values.
var ValidMethods = []string{MethodMise, MethodApt, MethodScript}

// InstallSpec selects one install method and carries the method-specific
// configuration block. Exactly the block matching Method must be present.
type InstallSpec struct {
	Method string       `yaml:"method" json:"method"`
	Mise   *MiseInstall `yaml:"mise,omitempty" json:"mise,omitempty"`
	Apt    *AptInstall  `yaml:"apt,omitempty" json:"apt,omitempty"`
	Script *ScriptSpec  `yaml:"script,omitempty" json:"script,omitempty"`
}

// MiseInstall configures installation through the mise version manager.
type MiseInstall struct {
	// Tools maps tool name to the requested version (e.g. "python": "3.13").
	Tools map[string]string `yaml:"tools" json:"tools"`

	// ReshimAfterInstall regenerates shims once installation completes.
	ReshimAfterInstall bool `yaml:"reshimAfterInstall,omitempty" json:"reshimAfterInstall,omitempty"`
}

// AptInstall configures installation through the system package manager.
type AptInstall struct {
	Packages    []string `yaml:"packages" json:"packages"`
	UpdateFirst bool     `yaml:"updateFirst,omitempty" json:"updateFirst,omitempty"`
}

// ScriptSpec points at a shell script inside the extension directory.
type ScriptSpec struct {
	Path    string   `yaml:"path" json:"path"`
	Args    []string `yaml:"args,omitempty" json:"args,omitempty"`
	Timeout int      `yaml:"timeout,omitempty" json:"timeout,omitempty"` // seconds
}

// Environment scope identifiers. Scope names a shell profile fragment:
// "profile" targets login shells, "bashrc" targets interactive non-login
// shells, and "session" applies only to the current process.
const (
	ScopeBashrc  = "bashrc"
	ScopeProfile = "profile"
	ScopeSession = "session"
)

// ConfigureSpec declares environment key/value pairs written during the
// configure phase.
type ConfigureSpec struct {
	Environment []EnvVar `yaml:"environment" json:"environment"`
}

// EnvVar is one environment declaration targeted at a named scope.
type EnvVar struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
	Scope string `yaml:"scope" json:"scope"`
}

// ValidateSpec declares post-install health checks.
type ValidateSpec struct {
	Commands []CommandCheck `yaml:"commands" json:"commands"`
}

// CommandCheck runs a command with its version flag and optionally matches
// the output against a regular expression.
type CommandCheck struct {
	Name            string `yaml:"name" json:"name"`
	VersionFlag     string `yaml:"versionFlag,omitempty" json:"versionFlag,omitempty"`
	ExpectedPattern string `yaml:"expectedPattern,omitempty" json:"expectedPattern,omitempty"`
}

// Upgrade strategy identifiers.
const (
	UpgradeReinstall = "reinstall"
	UpgradeInPlace   = "in-place"
)

// UpgradeSpec declares how an installed extension moves to a newer version.
type UpgradeSpec struct {
	Strategy string      `yaml:"strategy" json:"strategy"`
	Script   *ScriptSpec `yaml:"script,omitempty" json:"script,omitempty"`
}

// RemoveSpec declares method-specific cleanup.
type RemoveSpec struct {
	Mise   *MiseRemove `yaml:"mise,omitempty" json:"mise,omitempty"`
	Apt    *AptRemove  `yaml:"apt,omitempty" json:"apt,omitempty"`
	Script *ScriptSpec `yaml:"script,omitempty" json:"script,omitempty"`

	// Paths are removed from disk after the method-specific cleanup.
	Paths []string `yaml:"paths,omitempty" json:"paths,omitempty"`
}

// MiseRemove lists tools to uninstall from the version manager.
type MiseRemove struct {
	Tools []string `yaml:"tools" json:"tools"`
}

// AptRemove lists system packages to remove.
type AptRemove struct {
	Packages []string `yaml:"packages" json:"packages"`
	Purge    bool     `yaml:"purge,omitempty" json:"purge,omitempty"`
}

// BOMSpec declares the components an extension contributes to the bill of
// materials.
type BOMSpec struct {
	Tools []BOMTool `yaml:"tools" json:"tools"`
}

// BOMTool is one declared component. Version may be the placeholder
// "dynamic", in which case the concrete version is captured at install time.
type BOMTool struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
	Type    string `yaml:"type,omitempty" json:"type,omitempty"`
	Source  string `yaml:"source" json:"source"`
}

// Category constants for the fixed category set.
const (
	CategoryBase           = "base"
	CategoryLanguage       = "language"
	CategoryDevTools       = "dev-tools"
	CategoryDatabase       = "database"
	CategoryCloud          = "cloud"
	CategoryMonitoring     = "monitoring"
	CategorySecurity       = "security"
	CategoryAI             = "ai"
	CategoryInfrastructure = "infrastructure"
	CategoryUtilities      = "utilities"
)

// ValidCategories contains all valid category values.
var ValidCategories = []string{
	CategoryBase,
	CategoryLanguage,
	CategoryDevTools,
	CategoryDatabase,
	CategoryCloud,
	CategoryMonitoring,
	CategorySecurity,
	CategoryAI,
	CategoryInfrastructure,
	CategoryUtilities,
}
