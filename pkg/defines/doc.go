// Package defines resolves the set of build conditions active for a target.
//
// Conditions can come from several places at once:
//
//   - Static: values passed on the command line (--define)
//   - Env: an environment variable such as BUILD_DEFINES, falling back to
//     the project's .env file
//   - Csproj: <DefineConstants> of an MSBuild project, per configuration
//   - Unity: scriptingDefineSymbols of ProjectSettings.asset, per platform
//
// Multi unions any number of sources. A source that fails is logged and left
// out, so a broken project file never blocks a build.
package defines
