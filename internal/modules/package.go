package modules

import (
	"github.com/zjrosen/abikit/internal/log"
)

// Logical module names.
const (
	URLHandler           = "URLHandler"
	Constants            = "Constants"
	Shake                = "Shake"
	FontLoader           = "FontLoader"
	Keyboard             = "Keyboard"
	Util                 = "Util"
	NativeAnimated       = "NativeAnimated"
	AsyncStorage         = "AsyncStorage"
	UnsignedAsyncStorage = "UnsignedAsyncStorage"
	Notifications        = "Notifications"
	Contacts             = "Contacts"
	FileSystem           = "FileSystem"
	Location             = "Location"
	Crypto               = "Crypto"
	ImagePicker          = "ImagePicker"
	ImageCropper         = "ImageCropper"
	Facebook             = "Facebook"
	Fabric               = "Fabric"
)

var (
	// coreModules are installed for the kernel and for every experience.
	coreModules = []string{URLHandler, Constants, Shake, FontLoader, Keyboard, Util, NativeAnimated}

	// verifiedModules touch user data and are only given to verified content.
	verifiedModules = []string{
		AsyncStorage, Notifications, Contacts, FileSystem, Location,
		Crypto, ImagePicker, Facebook, Fabric,
	}

	// unverifiedModules replace verifiedModules for unverified content.
	unverifiedModules = []string{UnsignedAsyncStorage}

	// experienceModules are added for any non-kernel content.
	experienceModules = []string{ImageCropper}
)

// PackageNames returns the module names ctx should receive, in install order.
func PackageNames(ctx Context) []string {
	names := append([]string(nil), coreModules...)
	if ctx.Kernel {
		return names
	}
	if ctx.Verified() {
		names = append(names, verifiedModules...)
	} else {
		names = append(names, unverifiedModules...)
	}
	return append(names, experienceModules...)
}

// BuildPackage instantiates the modules ctx should receive. Modules that the
// table does not provide for ctx's SDK version are skipped.
func (t *Table) BuildPackage(ctx Context) []Module {
	names := PackageNames(ctx)
	out := make([]Module, 0, len(names))
	for _, name := range names {
		factory, err := t.Resolve(ctx.SDK.Version, name)
		if err != nil {
			log.Warn(log.CatModules, "module unavailable for sdk version, skipping",
				"module", name, "sdk", ctx.SDK.Version)
			continue
		}
		out = append(out, factory(ctx))
	}
	log.Debug(log.CatModules, "package built",
		"sdk", ctx.SDK.Version, "kernel", ctx.Kernel, "verified", ctx.Verified(), "modules", len(out))
	return out
}
