// Provides platform-appropriate paths for the worker.
//
// All paths follow XDG conventions on Linux and platform-native conventions
// on macOS and Windows. The name "lucius" is used as the subdirectory under
// each base path.
package paths
