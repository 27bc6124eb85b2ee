// Package errs defines the error taxonomy shared across the core: a closed
// set of kinds, each carrying a short message, a longer explanation
// template, and a stable documentation slug. Core APIs return these values
// instead of raising exceptions; only the command dispatcher at the edge
// translates them into process exit codes.
package errs

import "fmt"

// Kind identifies one of the core's known error conditions. Kind values are
// stable and safe to match on in callers and in tests.
type Kind string

const (
	InvalidPkgName            Kind = "invalid_pkg_name"
	InvalidVersionString      Kind = "invalid_version_string"
	InvalidVersionRangeString Kind = "invalid_version_range_string"
	InvalidPkgManifest        Kind = "invalid_pkg_manifest"
	UnknownTestDriver         Kind = "unknown_test_driver"
	InvalidCatalogJSON        Kind = "invalid_catalog_json"
	NoSuchCatalogPackage      Kind = "no_such_catalog_package"
	NoCatalogRemoteInfo       Kind = "no_catalog_remote_info"
	GitURLRefMutualReq        Kind = "git_url_ref_mutual_req"
	CorruptedCatalogDB        Kind = "corrupted_catalog_db"
	CatalogTooNew             Kind = "catalog_too_new"
	DependencyResolveFailure  Kind = "dependency_resolve_failure"
	CompileFailure            Kind = "compile_failure"
	ArchiveFailure            Kind = "archive_failure"
	LinkFailure               Kind = "link_failure"
	SdistExists               Kind = "sdist_exists"
	NoDefaultToolchain        Kind = "no_default_toolchain"
	InvalidBuiltinToolchain   Kind = "invalid_builtin_toolchain"
	UserCancelled             Kind = "user_cancelled"
)

// descriptor holds the static template and slug for a Kind. Message is a
// short summary; Explain is a longer fmt template applied to an error's
// Args.
type descriptor struct {
	Message string
	Explain string
	Slug    string
}

var registry = map[Kind]descriptor{
	InvalidPkgName: {
		Message: "invalid package name",
		Explain: "package name %q is not a valid identifier: names are restricted to lowercase alphanumerics, '-', '_', '.', and '/'.",
		Slug:    "invalid-pkg-name",
	},
	InvalidVersionString: {
		Message: "invalid version string",
		Explain: "version string %q is not valid semver.",
		Slug:    "invalid-version-string",
	},
	InvalidVersionRangeString: {
		Message: "invalid version range string",
		Explain: "version range string %q could not be parsed as \"[low,high)\".",
		Slug:    "invalid-version-range-string",
	},
	InvalidPkgManifest: {
		Message: "invalid package manifest",
		Explain: "manifest at %q failed validation: %s",
		Slug:    "invalid-pkg-manifest",
	},
	UnknownTestDriver: {
		Message: "unknown test driver",
		Explain: "test_driver %q is not one of \"Catch\", \"Catch-Main\".",
		Slug:    "unknown-test-driver",
	},
	InvalidCatalogJSON: {
		Message: "invalid catalog JSON",
		Explain: "catalog import document is invalid at %s: %s",
		Slug:    "invalid-catalog-json",
	},
	NoSuchCatalogPackage: {
		Message: "no such catalog package",
		Explain: "no package %q in the catalog.%s",
		Slug:    "no-such-catalog-package",
	},
	NoCatalogRemoteInfo: {
		Message: "missing catalog remote info",
		Explain: "package %q has no \"git\" remote entry; the catalog requires one.",
		Slug:    "no-catalog-remote-info",
	},
	GitURLRefMutualReq: {
		Message: "git url/ref must be given together",
		Explain: "package %q supplies only one of git.url / git.ref; both or neither are required.",
		Slug:    "git-url-ref-mutual-req",
	},
	CorruptedCatalogDB: {
		Message: "corrupted catalog database",
		Explain: "catalog at %q could not be migrated: %s",
		Slug:    "corrupted-catalog-db",
	},
	CatalogTooNew: {
		Message: "catalog schema too new",
		Explain: "catalog at %q has schema version %d, newer than the %d this build understands.",
		Slug:    "catalog-too-new",
	},
	DependencyResolveFailure: {
		Message: "dependency resolution failed",
		Explain: "package %q is required both as %s and as %s, and no version satisfies both.",
		Slug:    "dependency-resolve-failure",
	},
	CompileFailure: {
		Message: "compile failed",
		Explain: "compiling %q failed: %s",
		Slug:    "compile-failure",
	},
	ArchiveFailure: {
		Message: "archive failed",
		Explain: "creating archive %q failed: %s",
		Slug:    "archive-failure",
	},
	LinkFailure: {
		Message: "link failed",
		Explain: "linking %q failed: %s",
		Slug:    "link-failure",
	},
	SdistExists: {
		Message: "source distribution already exists",
		Explain: "destination %q already holds a source distribution; pass force/replace to overwrite it.",
		Slug:    "sdist-exists",
	},
	NoDefaultToolchain: {
		Message: "no default toolchain",
		Explain: "no toolchain was specified and no default is configured for this platform.",
		Slug:    "no-default-toolchain",
	},
	InvalidBuiltinToolchain: {
		Message: "invalid built-in toolchain",
		Explain: "%q is not a recognized built-in toolchain identifier.%s",
		Slug:    "invalid-builtin-toolchain",
	},
	UserCancelled: {
		Message: "cancelled",
		Explain: "the operation was cancelled by the user.",
		Slug:    "user-cancelled",
	},
}

// Error is the concrete error value every core API returns for a known
// failure kind. It formats as its short Message; Explanation renders the
// long-form template with Args applied.
type Error struct {
	Kind Kind
	Args []any
}

// New builds an Error of the given kind, formatting its long explanation
// with args. It panics if kind is not registered — that is a programming
// bug, never a condition reachable from user input.
func New(kind Kind, args ...any) *Error {
	if _, ok := registry[kind]; !ok {
		panic(fmt.Sprintf("errs: unknown error kind %q", kind))
	}
	return &Error{Kind: kind, Args: args}
}

func (e *Error) Error() string {
	d := registry[e.Kind]
	return d.Message
}

// Explanation renders the kind's long-form template against e.Args.
func (e *Error) Explanation() string {
	d := registry[e.Kind]
	return fmt.Sprintf(d.Explain, e.Args...)
}

// Slug returns the stable documentation cross-reference for e's kind.
func (e *Error) Slug() string {
	return registry[e.Kind].Slug
}

// Is supports errors.Is(err, errs.New(kind)) by comparing kinds only,
// ignoring Args.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// ExitCode maps an error kind to the process exit code the top-level
// dispatcher should use: 1 for user/validation errors, 2 for internal
// failures and cancellation.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case UserCancelled, CorruptedCatalogDB:
		return 2
	default:
		return 1
	}
}
