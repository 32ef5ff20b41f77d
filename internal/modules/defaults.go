package modules

import (
	"github.com/zjrosen/abikit/internal/versions"
)

const (
	apiPackage      = "host.exp.exponent.modules.api"
	internalPackage = "host.exp.exponent.modules.internal"
	reactPackage    = "com.facebook.react"
)

// DefaultSpecs is the module set every bundled SDK version ships.
var DefaultSpecs = []Spec{
	{Name: URLHandler, Class: "EXURLHandler", JavaPackage: apiPackage, JavaName: "URLHandlerModule"},
	{Name: Constants, Class: "EXConstants", JavaPackage: apiPackage, JavaName: "ConstantsModule"},
	{Name: Shake, Class: "EXShake", JavaPackage: apiPackage, JavaName: "ShakeModule"},
	{Name: FontLoader, Class: "EXFontLoader", JavaPackage: apiPackage, JavaName: "FontLoaderModule"},
	{Name: Keyboard, Class: "EXKeyboard", JavaPackage: apiPackage, JavaName: "KeyboardModule"},
	{Name: Util, Class: "EXUtil", JavaPackage: apiPackage, JavaName: "UtilModule"},
	{Name: NativeAnimated, Class: "RCTNativeAnimatedModule", JavaPackage: reactPackage + ".animated", JavaName: "NativeAnimatedModule"},
	{Name: AsyncStorage, Class: "EXAsyncStorage", JavaPackage: internalPackage, JavaName: "ExponentAsyncStorageModule"},
	{Name: UnsignedAsyncStorage, Class: "EXUnsignedAsyncStorage", JavaPackage: internalPackage, JavaName: "ExponentUnsignedAsyncStorageModule"},
	{Name: Notifications, Class: "EXNotifications", JavaPackage: apiPackage, JavaName: "NotificationsModule"},
	{Name: Contacts, Class: "EXContacts", JavaPackage: apiPackage, JavaName: "ContactsModule"},
	{Name: FileSystem, Class: "EXFileSystem", JavaPackage: apiPackage + ".filesystem", JavaName: "FileSystemModule"},
	{Name: Location, Class: "EXLocation", JavaPackage: apiPackage, JavaName: "LocationModule"},
	{Name: Crypto, Class: "EXCrypto", JavaPackage: apiPackage, JavaName: "CryptoModule"},
	{Name: ImagePicker, Class: "EXImagePicker", JavaPackage: apiPackage, JavaName: "ImagePickerModule"},
	{Name: ImageCropper, Class: "EXImageCropper", JavaPackage: apiPackage, JavaName: "ImageCropperModule"},
	{Name: Facebook, Class: "EXFacebook", JavaPackage: apiPackage, JavaName: "FacebookModule"},
	{Name: Fabric, Class: "EXFabric", JavaPackage: apiPackage, JavaName: "FabricModule"},
}

// NewDefaultTable registers DefaultSpecs for every version in registry, then
// runs extra hooks. A hook adds modules with Register and replaces a default
// with Override.
func NewDefaultTable(registry versions.Provider, extra ...func(*Builder)) (*Table, error) {
	sdkVersions := make([]string, 0)
	for v := range registry.Versions() {
		sdkVersions = append(sdkVersions, v)
	}

	b := NewBuilder(registry)
	for _, spec := range DefaultSpecs {
		b.RegisterAll(spec.Name, sdkVersions, SpecFactory(spec))
	}
	for _, fn := range extra {
		fn(b)
	}
	return b.Build()
}
